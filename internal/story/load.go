package story

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

//go:embed default.toml
var defaultTOML []byte

// Fetcher retrieves remote content. The asset cache implements it.
type Fetcher interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

// Format is the encoding of a story file.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

// Default returns the built-in story.
func Default() *Story {
	s, err := Parse(defaultTOML, FormatTOML)
	if err != nil {
		panic(fmt.Sprintf("embedded story: %v", err))
	}
	return s
}

// Load resolves source to a story. An empty source returns the built-in
// story, an http(s) URL is fetched through f, anything else is read from
// disk. The format follows the file extension.
func Load(ctx context.Context, source string, f Fetcher) (*Story, error) {
	if source == "" {
		return Default(), nil
	}

	var (
		data []byte
		err  error
		name = source
	)
	if u, perr := url.Parse(source); perr == nil && (u.Scheme == "http" || u.Scheme == "https") {
		if f == nil {
			return nil, fmt.Errorf("load story %s: no fetcher for remote content", source)
		}
		data, err = f.Get(ctx, source)
		name = u.Path
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("load story %s: %w", source, err)
	}

	s, err := Parse(data, FormatOf(name))
	if err != nil {
		return nil, fmt.Errorf("load story %s: %w", source, err)
	}
	return s, nil
}

// FormatOf picks the format from a file name.
func FormatOf(name string) Format {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Parse decodes data and validates the result.
func Parse(data []byte, format Format) (*Story, error) {
	s := &Story{}
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(s); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), s); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
