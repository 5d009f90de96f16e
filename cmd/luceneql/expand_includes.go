package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/foundatiofx/go-lucene/pkg/lucene"
)

func newExpandIncludesCmd() *cobra.Command {
	var (
		includes    []string
		includesDir string
	)

	cmd := &cobra.Command{
		Use:   "expand-includes [query]",
		Short: "Parse query text and expand @include references",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := readQuery(args)
			if err != nil {
				return err
			}

			table, err := buildIncludeTable(includes, includesDir)
			if err != nil {
				return err
			}

			printTrace("parse", "include-expansion")

			op := resolveOperator(defaultOperator)
			result := lucene.Parse(query, op)
			if !result.IsSuccess() {
				reportParseErrors(result.Errors)
				os.Exit(1)
			}

			resolver := lucene.IncludeResolver(func(_ context.Context, name string) (string, error) {
				return table[name], nil
			})

			ctx := lucene.NewVisitorContext(context.Background())
			ctx.SetValidationResult(lucene.NewValidationResult())
			doc := result.Document.ExpandIncludes(resolver, op, ctx)

			fmt.Println(ansiHighlight(doc.Render()))
			if unresolved := ctx.ValidationResult().UnresolvedIncludes; len(unresolved) > 0 {
				fmt.Fprintf(os.Stderr, "unresolved includes: %v\n", unresolved)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&includes, "include", nil, "name=query-text pair, repeatable")
	cmd.Flags().StringVar(&includesDir, "includes-dir", "", "directory of <name>.lucene files used as include text")

	return cmd
}

func buildIncludeTable(includes []string, dir string) (map[string]string, error) {
	table := make(map[string]string)

	for _, kv := range includes {
		name, text, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --include %q, expected name=query-text", kv)
		}
		table[name] = text
	}

	if dir == "" {
		return table, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading includes directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading include file %q: %w", entry.Name(), err)
		}
		table[name] = strings.TrimSpace(string(data))
	}
	return table, nil
}
