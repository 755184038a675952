package main

import (
	"os"

	"expert-directory-service/cmd/dbtool/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
