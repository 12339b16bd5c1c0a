package main

import (
	"os"

	"go-timesheet/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args))
}
