// Package main provides the entry point for the CoLearnHub group service.
// It runs a JSON API built on Fiber that lets users create study groups,
// invite other users, accept or decline invitations and leave groups.
// Rows live behind a table-scoped data gateway which is either a SQL
// database driven through gorm or a PostgREST compatible remote store.
package main
