package main

import (
	"os"

	"github.com/colearnhub/colearnhub/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
