package catalog

import (
	"bytes"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/goccy/go-yaml"
	"github.com/vmihailenco/msgpack/v5"
)

// File is the on-disk shape of a catalog in every format.
type File struct {
	Items []Item `toml:"items" yaml:"items" msgpack:"items"`
}

// Load reads a catalog file, choosing the decoder by extension.
func Load(path string) (*Catalog, error) {
	format, err := ValidateFileFormat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	items, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	c, err := New(items)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	log.Debugf("Loaded %d catalog items (%s) from %s", c.Len(), format, path)
	return c, nil
}

// LoadOrDefault loads path, falling back to the built-in catalog when path is
// empty or unusable.
func LoadOrDefault(path string) *Catalog {
	if path == "" {
		return Default()
	}
	c, err := Load(path)
	if err != nil {
		log.Warnf("Could not load catalog: %v. Using built-in catalog...", err)
		return Default()
	}
	return c
}

// Decode parses raw catalog bytes.
func Decode(data []byte, format FileFormat) ([]Item, error) {
	var file File
	switch format {
	case FormatTOML:
		if _, err := toml.Decode(string(data), &file); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, err
		}
	case FormatMsgpack:
		if err := msgpack.Unmarshal(data, &file); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown format: %v", format)
	}
	return file.Items, nil
}

// Encode serialises items in the given format.
func Encode(items []Item, format FileFormat) ([]byte, error) {
	file := File{Items: items}
	switch format {
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(file); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatYAML:
		return yaml.Marshal(file)
	case FormatMsgpack:
		return msgpack.Marshal(file)
	default:
		return nil, fmt.Errorf("unknown format: %v", format)
	}
}

// Save writes the catalog to path in the format implied by its extension.
func Save(c *Catalog, path string) error {
	format := DetectFormat(path)
	if format == FormatUnknown {
		return fmt.Errorf("cannot save catalog to %s: unsupported extension", path)
	}
	data, err := Encode(c.Items(), format)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
