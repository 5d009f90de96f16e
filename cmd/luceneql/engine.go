package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/foundatiofx/go-lucene/internal/schema"
	"github.com/foundatiofx/go-lucene/pkg/lucene"
)

// readQuery returns args[0] if given, otherwise reads the whole of stdin.
func readQuery(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading query from stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func resolveOperator(raw string) lucene.Operator {
	if strings.EqualFold(raw, "and") {
		return lucene.And
	}
	return lucene.Or
}

// loadSchema reads a JSON-encoded schema definition from path, used by the
// parse and validate subcommands' --schema flag to resolve field aliases.
func loadSchema(path string) (*schema.Schema, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}
	var raw struct {
		Name    string                   `json:"name"`
		Fields  map[string]schema.Field  `json:"fields"`
		Options schema.SchemaOptions     `json:"options"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing schema file: %w", err)
	}
	return schema.NewSchema(raw.Name, raw.Fields, raw.Options), nil
}

// printTrace lists the visitors a chain will run, in the order it will run
// them, to stderr so it never pollutes piped stdout output.
func printTrace(names ...string) {
	if !traceMode {
		return
	}
	fmt.Fprintln(os.Stderr, "visitor chain:")
	for i, name := range names {
		fmt.Fprintf(os.Stderr, "  %d. %s\n", i+1, name)
	}
}

// reportParseErrors prints one line per diagnostic, 1-indexed like most
// compilers, to stderr.
func reportParseErrors(errs lucene.ParseErrors) {
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "%d:%d: %s\n", e.Position.Line, e.Position.Column, e.Message)
	}
}

// ansiHighlight wraps boolean keywords and field markers in terminal color
// codes when stdout is a TTY; otherwise it returns s unchanged.
func ansiHighlight(s string) string {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return s
	}
	const (
		bold   = "\x1b[1m"
		yellow = "\x1b[33m"
		reset  = "\x1b[0m"
	)
	replacer := strings.NewReplacer(
		" AND ", " "+bold+yellow+"AND"+reset+" ",
		" OR ", " "+bold+yellow+"OR"+reset+" ",
		"NOT ", bold+yellow+"NOT"+reset+" ",
	)
	return replacer.Replace(s)
}
