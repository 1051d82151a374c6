// Package models contains the row definitions of the tables the service reads and writes.
// JSON tags follow the column names so the same structs decode PostgREST responses.
package models
