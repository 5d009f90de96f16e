package includestore

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var defLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "String", Pattern: `"([^"\\]|\\.)*"`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_.]*`},
	{Name: "Equals", Pattern: `=`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
})

// ParsedDefinition is one name = "query text" line parsed out of a
// definition file.
type ParsedDefinition struct {
	Name  string `parser:"@Ident \"=\""`
	Query string `parser:"@String"`
}

// definitionFile is the grammar root: zero or more definitions, in any
// order, comments ignored.
type definitionFile struct {
	Defs []*ParsedDefinition `parser:"@@*"`
}

var defParser = participle.MustBuild[definitionFile](
	participle.Lexer(defLexer),
	participle.Elide("Whitespace", "Comment"),
)

// ParseDefinitions parses the `name = "query text"` file format used by
// LoadFile and returns every definition found in text.
func ParseDefinitions(text string) ([]ParsedDefinition, error) {
	file, err := defParser.ParseString("", text)
	if err != nil {
		return nil, err
	}
	out := make([]ParsedDefinition, 0, len(file.Defs))
	for _, d := range file.Defs {
		out = append(out, ParsedDefinition{Name: d.Name, Query: unquote(d.Query)})
	}
	return out, nil
}

// unquote strips the surrounding quotes participle's String token keeps and
// resolves the handful of backslash escapes a query string might contain.
func unquote(raw string) string {
	if len(raw) < 2 {
		return raw
	}
	inner := raw[1 : len(raw)-1]
	out := make([]byte, 0, len(inner))
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' && i+1 < len(inner) {
			i++
		}
		out = append(out, inner[i])
	}
	return string(out)
}
