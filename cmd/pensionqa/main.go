// Package main provides the pensionqa command for normalizing pension payee spreadsheets.
package main

import (
	"os"

	"pensionqa/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
