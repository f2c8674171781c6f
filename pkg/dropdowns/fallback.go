package dropdowns

import (
	"embed"
	"fmt"
	"io"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/fallbacks.yaml
var dataFS embed.FS

const defaultFallbackPath = "data/fallbacks.yaml"

var (
	fallbackOnce sync.Once
	fallbackSet  Set
	fallbackErr  error
)

// DefaultFallbacks returns a copy of the embedded fallback sequences. The file
// is parsed once per process.
func DefaultFallbacks() (Set, error) {
	fallbackOnce.Do(func() {
		f, err := dataFS.Open(defaultFallbackPath)
		if err != nil {
			fallbackErr = err
			return
		}
		defer func() { _ = f.Close() }()

		set, err := LoadFallbacks(f)
		if err != nil {
			fallbackErr = err
			return
		}
		fallbackSet = set
	})

	if fallbackErr != nil {
		return Set{}, fallbackErr
	}
	return fallbackSet.Clone(), nil
}

// MustDefaultFallbacks is DefaultFallbacks for package initialisation paths
// where the embedded file is known to be valid.
func MustDefaultFallbacks() Set {
	set, err := DefaultFallbacks()
	if err != nil {
		panic(err)
	}
	return set
}

// LoadFallbacks parses a YAML document with one list per category. Every
// category must be present and non-empty.
func LoadFallbacks(r io.Reader) (Set, error) {
	if r == nil {
		return Set{}, fmt.Errorf("dropdowns: missing reader")
	}

	var set Set
	if err := yaml.NewDecoder(r).Decode(&set); err != nil {
		return Set{}, fmt.Errorf("dropdowns: decode fallbacks: %w", err)
	}
	for _, category := range Categories() {
		if len(set.Get(category)) == 0 {
			return Set{}, fmt.Errorf("dropdowns: fallback list %q is empty", category)
		}
	}
	return set, nil
}
