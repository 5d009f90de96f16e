package includestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/sethvargo/go-retry"

	"github.com/foundatiofx/go-lucene/pkg/lucene"
)

// LoadFile parses a `name = "query text"` definition file (see
// ParseDefinitions) and loads every definition it contains into the store.
func LoadFile(s *Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading include definitions %q: %w", path, err)
	}
	defs, err := ParseDefinitions(string(data))
	if err != nil {
		return fmt.Errorf("parsing include definitions %q: %w", path, err)
	}
	s.LoadDefinitions(defs)
	return nil
}

// tomlDefinitions is the shape a TOML-backed include file takes: a flat
// table of name -> query-text pairs.
type tomlDefinitions struct {
	Includes map[string]string `toml:"includes"`
}

// LoadTOMLFile parses a TOML file of the form:
//
//	[includes]
//	saved = "status:active"
//
// and loads every entry into the store.
func LoadTOMLFile(s *Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading include TOML file %q: %w", path, err)
	}
	var doc tomlDefinitions
	if err := toml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing include TOML file %q: %w", path, err)
	}
	for name, query := range doc.Includes {
		s.Put(name, query)
	}
	return nil
}

// FileBackedResolver resolves include names by re-reading a directory of
// <name>.lucene files on every lookup, so edits to the files on disk take
// effect without a restart. Reads are retried with exponential backoff to
// tolerate a flaky or network-mounted filesystem.
type FileBackedResolver struct {
	Dir        string
	MaxRetries uint64
	BaseDelay  time.Duration
}

// NewFileBackedResolver returns a FileBackedResolver reading .lucene files
// out of dir, retrying a failed read up to 3 times with 25ms exponential
// backoff.
func NewFileBackedResolver(dir string) *FileBackedResolver {
	return &FileBackedResolver{Dir: dir, MaxRetries: 3, BaseDelay: 25 * time.Millisecond}
}

// Resolver returns a lucene.IncludeResolver backed by this directory. A
// missing file resolves to ("", nil) - unresolved, not an error - matching
// the in-memory Store's behavior for an unknown name.
func (f *FileBackedResolver) Resolver() lucene.IncludeResolver {
	return func(ctx context.Context, name string) (string, error) {
		return f.read(ctx, name)
	}
}

func (f *FileBackedResolver) read(ctx context.Context, name string) (string, error) {
	path := filepath.Join(f.Dir, name+".lucene")

	backoff := retry.WithMaxRetries(f.MaxRetries, retry.NewExponential(f.BaseDelay))
	var text string
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return retry.RetryableError(err)
		}
		text = strings.TrimSpace(string(data))
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("reading include file for %q: %w", name, err)
	}
	return text, nil
}
