package main

import (
	"os"

	"github.com/oqd/pdfservice/cmd/pdfctl/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
