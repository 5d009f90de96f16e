package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/foundatiofx/go-lucene/pkg/lucene"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [query]",
		Short: "Parse query text and print its canonical rendering",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := readQuery(args)
			if err != nil {
				return err
			}

			op := resolveOperator(defaultOperator)
			chainNames := []string{"parse"}

			s, err := loadSchema(schemaFile)
			if err != nil {
				return err
			}
			if s != nil {
				chainNames = append(chainNames, "field-resolution")
			}
			printTrace(chainNames...)

			result := lucene.Parse(query, op)
			if !result.IsSuccess() {
				reportParseErrors(result.Errors)
				os.Exit(1)
			}

			doc := result.Document
			if s != nil {
				doc = doc.RunVisitors(
					lucene.NewChainedVisitor().Add(lucene.NewFieldResolutionVisitor(s.FieldResolver()), 0),
					nil,
				)
			}

			fmt.Println(ansiHighlight(doc.Render()))
			return nil
		},
	}
}
