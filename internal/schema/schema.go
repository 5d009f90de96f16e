package schema

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gobwas/glob"

	"github.com/foundatiofx/go-lucene/pkg/lucene"
)

// FieldType represents the data type of a field
type FieldType string

const (
	TypeText     FieldType = "text"
	TypeInteger  FieldType = "integer"
	TypeFloat    FieldType = "float"
	TypeBoolean  FieldType = "boolean"
	TypeDateTime FieldType = "datetime"
	TypeDate     FieldType = "date"
	TypeTime     FieldType = "time"
	TypeJSON     FieldType = "json"
	TypeArray    FieldType = "array"
)

// Field represents a schema field definition.
type Field struct {
	Type        FieldType `json:"type"`
	ResolvesTo  string    `json:"resolvesTo,omitempty"` // Optional: explicit resolved-name override
	Aliases     []string  `json:"aliases,omitempty"`    // Alternative field names accepted in query text
	GlobAliases []string  `json:"globAliases,omitempty"`
}

// SchemaOptions contains configuration options for a schema.
type SchemaOptions struct {
	NamingConvention string `json:"namingConvention"` // "snake_case", "camelCase", "PascalCase", "none"
	StrictFieldNames bool   `json:"strictFieldNames"`  // case-sensitive field names
	DefaultField     string `json:"defaultField"`      // field for queries without field specifier
}

// Schema represents a named field-alias registry that feeds a
// lucene.FieldResolver: it resolves the field names a caller types in query
// text to the canonical names a downstream consumer (an index, a storage
// layer) expects.
type Schema struct {
	Name      string           `json:"name"`
	Fields    map[string]Field `json:"fields"`
	Options   SchemaOptions    `json:"options"`
	CreatedAt time.Time        `json:"createdAt"`

	// Internal cache for fast lookups
	lowerFieldMap map[string]string    // lowercase field name -> actual field name
	aliasMap      map[string]string    // alias (normalized) -> field name
	globAliases   []globAlias
}

type globAlias struct {
	pattern glob.Glob
	field   string
}

// NewSchema creates a new schema with the given name and fields
func NewSchema(name string, fields map[string]Field, options SchemaOptions) *Schema {
	s := &Schema{
		Name:      name,
		Fields:    fields,
		Options:   options,
		CreatedAt: time.Now(),
	}
	s.buildLookupCache()
	return s
}

// buildLookupCache pre-computes field mappings for fast resolution
func (s *Schema) buildLookupCache() {
	s.lowerFieldMap = make(map[string]string)
	s.aliasMap = make(map[string]string)
	s.globAliases = nil

	for fieldName, field := range s.Fields {
		// Build case-insensitive lookup
		s.lowerFieldMap[strings.ToLower(fieldName)] = fieldName

		// Build alias lookup
		for _, alias := range field.Aliases {
			normalizedAlias := alias
			if !s.Options.StrictFieldNames {
				normalizedAlias = strings.ToLower(alias)
			}
			s.aliasMap[normalizedAlias] = fieldName
		}

		// Build glob-pattern alias lookup (e.g. "data.*.legacy" -> fieldName)
		for _, pattern := range field.GlobAliases {
			g, err := glob.Compile(pattern)
			if err != nil {
				continue
			}
			s.globAliases = append(s.globAliases, globAlias{pattern: g, field: fieldName})
		}
	}
}

// ResolveField resolves a query field name to its resolved name and field
// definition. Resolution order:
// 1. Exact match
// 2. Case-insensitive match (if strictFieldNames: false)
// 3. Alias lookup
// 4. Glob-alias lookup
// 5. Transform via naming convention and match
func (s *Schema) ResolveField(queryField string) (resolvedName string, field *Field, err error) {
	if queryField == "" {
		return "", nil, errors.New("empty field name")
	}

	// Stage 1: Exact match
	if f, exists := s.Fields[queryField]; exists {
		return s.getResolvedName(queryField, &f), &f, nil
	}

	// Stage 2: Case-insensitive match (if enabled)
	if !s.Options.StrictFieldNames {
		if actualField, exists := s.lowerFieldMap[strings.ToLower(queryField)]; exists {
			f := s.Fields[actualField]
			return s.getResolvedName(actualField, &f), &f, nil
		}
	}

	// Stage 3: Alias lookup
	lookupKey := queryField
	if !s.Options.StrictFieldNames {
		lookupKey = strings.ToLower(queryField)
	}
	if actualField, exists := s.aliasMap[lookupKey]; exists {
		f := s.Fields[actualField]
		return s.getResolvedName(actualField, &f), &f, nil
	}

	// Stage 4: Glob-alias lookup
	for _, ga := range s.globAliases {
		if ga.pattern.Match(queryField) {
			f := s.Fields[ga.field]
			return s.getResolvedName(ga.field, &f), &f, nil
		}
	}

	// Stage 5: Transform via naming convention and match
	if s.Options.NamingConvention != "" && s.Options.NamingConvention != "none" {
		transformed := s.transformFieldName(queryField)
		if transformed != queryField {
			// Try exact match with transformed name
			if f, exists := s.Fields[transformed]; exists {
				return s.getResolvedName(transformed, &f), &f, nil
			}
			// Try case-insensitive match with transformed name
			if !s.Options.StrictFieldNames {
				if actualField, exists := s.lowerFieldMap[strings.ToLower(transformed)]; exists {
					f := s.Fields[actualField]
					return s.getResolvedName(actualField, &f), &f, nil
				}
			}
		}
	}

	return "", nil, fmt.Errorf("field %q not found in schema %q", queryField, s.Name)
}

// getResolvedName returns the canonical name for a field (using an explicit
// override or the field name transformed per the schema's naming convention)
func (s *Schema) getResolvedName(fieldName string, field *Field) string {
	if field.ResolvesTo != "" {
		return field.ResolvesTo
	}

	if s.Options.NamingConvention == "" || s.Options.NamingConvention == "none" {
		return fieldName
	}

	return s.transformFieldName(fieldName)
}

// FieldResolver adapts ResolveField to lucene.FieldResolver, the shape
// NewFieldResolutionVisitor expects: an unresolvable field reports (_, false)
// rather than an error, since an unresolved field is recorded on the
// ValidationResult, not a hard failure.
func (s *Schema) FieldResolver() lucene.FieldResolver {
	return func(_ context.Context, field string) (string, bool) {
		resolved, _, err := s.ResolveField(field)
		if err != nil {
			return "", false
		}
		return resolved, true
	}
}

// transformFieldName applies the schema's naming convention to transform a field name
func (s *Schema) transformFieldName(fieldName string) string {
	switch s.Options.NamingConvention {
	case "snake_case":
		return ToSnakeCase(fieldName)
	case "camelCase":
		return ToCamelCase(fieldName)
	case "PascalCase":
		return ToPascalCase(fieldName)
	default:
		return fieldName
	}
}

// ValidFieldTypes returns a list of all valid field types
func ValidFieldTypes() []FieldType {
	return []FieldType{
		TypeText,
		TypeInteger,
		TypeFloat,
		TypeBoolean,
		TypeDateTime,
		TypeDate,
		TypeTime,
		TypeJSON,
		TypeArray,
	}
}

// IsValidFieldType checks if a field type is valid
func IsValidFieldType(ft FieldType) bool {
	switch ft {
	case TypeText, TypeInteger, TypeFloat, TypeBoolean,
		TypeDateTime, TypeDate, TypeTime, TypeJSON, TypeArray:
		return true
	default:
		return false
	}
}
