package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/Serenacula/templative/cmd/templative"
	"github.com/Serenacula/templative/internal/version"
)

func main() {
	rootCmd := templative.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "TEMPLATIVE",
		Section: "1",
		Source:  "templative " + version.Version,
		Manual:  "templative manual",
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
