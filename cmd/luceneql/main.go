package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile         string
	defaultOperator string
	traceMode       bool
	schemaFile      string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "luceneql",
		Short: "luceneql parses, renders, and validates Lucene-style query strings",
		Long: "luceneql is a command-line front end over the pkg/lucene parser, " +
			"visitor framework, and HTTP API: parse a query, render its canonical " +
			"form, validate it against field/operation policy, expand @include " +
			"references, or run the HTTP server.",
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a configuration file (serve only)")
	root.PersistentFlags().StringVar(&defaultOperator, "default-operator", "or", "default clause operator: or|and")
	root.PersistentFlags().BoolVar(&traceMode, "trace", false, "print the ordered visitor chain before running it")
	root.PersistentFlags().StringVar(&schemaFile, "schema", "", "path to a JSON schema file used for field resolution")

	root.AddCommand(newParseCmd())
	root.AddCommand(newRenderCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newExpandIncludesCmd())
	root.AddCommand(newServeCmd())

	return root
}
