package parser

import (
	"path/filepath"
	"strings"
	"unicode"
)

// detectFormatFromPath detects the document format from a file extension.
// Returns SourceFormatUnknown when the extension is not conclusive.
func detectFormatFromPath(path string) SourceFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return SourceFormatJSON
	case ".yaml", ".yml":
		return SourceFormatYAML
	default:
		return SourceFormatUnknown
	}
}

// detectFormatFromContent detects the document format from its content.
// JSON documents start with '{' or '[' as the first non-space byte; anything
// else is treated as YAML, which is a superset of JSON anyway.
func detectFormatFromContent(data []byte) SourceFormat {
	for _, b := range data {
		if unicode.IsSpace(rune(b)) {
			continue
		}
		if b == '{' || b == '[' {
			return SourceFormatJSON
		}
		return SourceFormatYAML
	}
	return SourceFormatUnknown
}
