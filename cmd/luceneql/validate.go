package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/foundatiofx/go-lucene/pkg/lucene"
)

func newValidateCmd() *cobra.Command {
	var (
		allowedFields        []string
		restrictedFields     []string
		allowedOperations    []string
		restrictedOperations []string
		allowLeadingWildcard bool
		maxDepth             int
	)

	cmd := &cobra.Command{
		Use:   "validate [query]",
		Short: "Parse query text and validate it against field/operation policy",
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
			chainNames = append(chainNames, "validate")
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

			opts := lucene.ValidationOptions{
				AllowedFields:         allowedFields,
				RestrictedFields:      restrictedFields,
				AllowLeadingWildcards: allowLeadingWildcard,
				AllowedMaxNodeDepth:   maxDepth,
				AllowedOperations:     allowedOperations,
				RestrictedOperations:  restrictedOperations,
			}

			validation := doc.Validate(opts)
			if len(validation.Errors) > 0 {
				for _, e := range validation.Errors {
					fmt.Fprintf(os.Stderr, "validation error: %s\n", e.Message)
				}
				os.Exit(1)
			}

			fmt.Println("valid")
			fmt.Printf("referenced fields: %v\n", validation.ReferencedFields)
			fmt.Printf("max node depth: %d\n", validation.MaxNodeDepth)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&allowedFields, "allowed-fields", nil, "comma-separated list of allowed field names")
	cmd.Flags().StringSliceVar(&restrictedFields, "restricted-fields", nil, "comma-separated list of restricted field names")
	cmd.Flags().StringSliceVar(&allowedOperations, "allowed-operations", nil, "comma-separated list of allowed operation kinds")
	cmd.Flags().StringSliceVar(&restrictedOperations, "restricted-operations", nil, "comma-separated list of restricted operation kinds")
	cmd.Flags().BoolVar(&allowLeadingWildcard, "allow-leading-wildcards", false, "allow terms starting with * or ?")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "maximum allowed group nesting depth (0 = unlimited)")

	return cmd
}
