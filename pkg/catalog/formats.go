package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileFormat identifies a catalog file encoding.
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatTOML
	FormatYAML
	FormatMsgpack
)

// FormatInfo describes one supported catalog encoding.
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatTOML: {
		Format:      FormatTOML,
		Description: "TOML Catalog",
		Extensions:  []string{".toml"},
		MinSize:     1,
	},
	FormatYAML: {
		Format:      FormatYAML,
		Description: "YAML Catalog",
		Extensions:  []string{".yaml", ".yml"},
		MinSize:     1,
	},
	FormatMsgpack: {
		Format:      FormatMsgpack,
		Description: "MessagePack Catalog",
		Extensions:  []string{".msgpack", ".mpk"},
		MinSize:     1, // an empty fixmap is one byte
	},
}

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "unknown"
}

// DetectFormat picks the format from the file extension.
func DetectFormat(filename string) FileFormat {
	ext := strings.ToLower(filepath.Ext(filename))
	for format, info := range supportedFormats {
		for _, e := range info.Extensions {
			if e == ext {
				return format
			}
		}
	}
	return FormatUnknown
}

// ValidateFileFormat checks that filename exists, has a known extension and is
// large enough to hold a catalog.
func ValidateFileFormat(filename string) (FileFormat, error) {
	format := DetectFormat(filename)
	info, ok := supportedFormats[format]
	if !ok {
		return FormatUnknown, fmt.Errorf("file %s has unsupported extension %q", filename, filepath.Ext(filename))
	}

	stat, err := os.Stat(filename)
	if err != nil {
		return format, fmt.Errorf("failed to stat file %s: %w", filename, err)
	}
	if stat.IsDir() {
		return format, fmt.Errorf("%s is a directory", filename)
	}
	if stat.Size() < info.MinSize {
		return format, fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, stat.Size(), info.Description, info.MinSize)
	}
	return format, nil
}
