package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/foundatiofx/go-lucene/pkg/lucene"
)

func newRenderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render [query]",
		Short: "Parse query text and print only its canonical rendering",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := readQuery(args)
			if err != nil {
				return err
			}

			printTrace("parse")

			result := lucene.Parse(query, resolveOperator(defaultOperator))
			if !result.IsSuccess() {
				reportParseErrors(result.Errors)
				os.Exit(1)
			}

			fmt.Println(ansiHighlight(result.Document.Render()))
			return nil
		},
	}
}
