package sanitize

import (
	"fmt"

	"github.com/foundatiofx/go-lucene/internal/config"
)

// Validator rejects query text and field/include names that violate basic
// resource and character-set limits before they reach the lexer.
type Validator struct {
	allowedFieldNameChars string
	maxQueryLength        int
	maxFieldNameLength    int
}

// NewValidator builds a Validator from the security and limits sections of
// a loaded Config.
func NewValidator(cfg *config.SecurityConfig, limits *config.LimitsConfig) *Validator {
	return &Validator{
		allowedFieldNameChars: cfg.AllowedFieldNameChars,
		maxQueryLength:        limits.MaxQueryLength,
		maxFieldNameLength:    limits.MaxFieldNameLength,
	}
}

// ValidateQuery checks length and character-set constraints on raw query text.
func (v *Validator) ValidateQuery(query string) error {
	if query == "" {
		return nil
	}

	if len(query) > v.maxQueryLength {
		return fmt.Errorf("query exceeds maximum length of %d characters", v.maxQueryLength)
	}

	for i, r := range query {
		if r == 0 {
			return fmt.Errorf("query contains null byte at position %d", i)
		}
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return fmt.Errorf("query contains control character at position %d", i)
		}
	}

	return nil
}

// ValidateFieldName checks length and character-set constraints on a field
// or include name.
func (v *Validator) ValidateFieldName(name string) error {
	if name == "" {
		return fmt.Errorf("field name cannot be empty")
	}

	if len(name) > v.maxFieldNameLength {
		return fmt.Errorf("field name exceeds maximum length of %d characters", v.maxFieldNameLength)
	}

	for i, r := range name {
		if r == 0 {
			return fmt.Errorf("field name contains null byte at position %d", i)
		}
		if !isAlphanumeric(r) && r != '.' && !containsRune(v.allowedFieldNameChars, r) {
			return fmt.Errorf("field name contains invalid character '%c' at position %d", r, i)
		}
	}

	return nil
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}
