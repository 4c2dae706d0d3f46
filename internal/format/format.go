// Package format renders CLI results as json, edn or toml.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	JSON = "json"
	EDN  = "edn"
	TOML = "toml"
)

// Normalize lower-cases name and maps "" to json. Unknown names are an error.
func Normalize(name string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(name)); f {
	case "", JSON:
		return JSON, nil
	case EDN, TOML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format: %s (want json|edn|toml)", name)
	}
}

// Write renders v in the requested format followed by a newline.
func Write(w io.Writer, v any, format string, pretty bool) error {
	f, err := Normalize(format)
	if err != nil {
		return err
	}
	switch f {
	case EDN:
		return WriteEDN(w, v, pretty)
	case TOML:
		return WriteTOML(w, v)
	default:
		return WriteJSON(w, v, pretty)
	}
}

func WriteJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// WriteTOML writes v as a TOML document. v must encode to a table (a struct
// or a map); CLI results are always wrapped as {"data": ...}.
func WriteTOML(w io.Writer, v any) error {
	generic, err := viaJSON(v)
	if err != nil {
		return err
	}
	if _, ok := generic.(map[string]any); !ok {
		return fmt.Errorf("toml output needs a table, got %T", generic)
	}
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	return enc.Encode(generic)
}

// viaJSON converts v into maps, slices and scalars using its json tags.
func viaJSON(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
