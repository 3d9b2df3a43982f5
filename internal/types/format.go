package types

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Format represents the detected file encoding.
type Format int

const (
	// FormatUnknown represents an unknown or unsupported encoding.
	FormatUnknown Format = iota // Unknown
	// FormatDelimited represents delimited text (CSV, TSV).
	FormatDelimited // Delimited
	// FormatJSON represents a JSON document holding an array of objects.
	FormatJSON // JSON
	// FormatParquet represents Apache Parquet columnar files.
	FormatParquet // Parquet
)

// String returns the display name of the format.
func (f Format) String() string {
	switch f {
	case FormatDelimited:
		return "Delimited"
	case FormatJSON:
		return "JSON"
	case FormatParquet:
		return "Parquet"
	default:
		return "Unknown"
	}
}

// Extensions returns the file extensions recognized for this format.
func (f Format) Extensions() []string {
	switch f {
	case FormatDelimited:
		return []string{".csv", ".tsv"}
	case FormatJSON:
		return []string{".json"}
	case FormatParquet:
		return []string{".parquet"}
	case FormatUnknown:
		return nil
	default:
		return nil
	}
}

// Encoding is the result of detection: a format plus, for delimited text,
// the field delimiter. It is fixed for the lifetime of an opened file.
type Encoding struct {
	Format    Format
	Delimiter rune // only meaningful for FormatDelimited
}

// String returns a human-readable description, e.g. Delimited(',').
func (e Encoding) String() string {
	if e.Format == FormatDelimited {
		return fmt.Sprintf("%s(%q)", e.Format, e.Delimiter)
	}
	return e.Format.String()
}

// DetectEncoding determines the encoding of path from its extension.
//
// A zero delimiter means none was given. Delimited extensions (.csv, .tsv)
// require a delimiter; .json and .parquet ignore it. Matching is
// case-insensitive. Detection performs no I/O.
func DetectEncoding(path string, delimiter rune) (Encoding, error) {
	ext, ok := extension(path)
	if !ok {
		return Encoding{}, &MissingExtensionError{Path: path}
	}

	switch strings.ToLower(ext) {
	case "csv", "tsv":
		if delimiter == 0 {
			return Encoding{}, &UnsupportedFormatError{
				Path:   path,
				Reason: "delimited text requires a delimiter",
			}
		}
		if !validDelimiter(delimiter) {
			return Encoding{}, &UnsupportedFormatError{
				Path:   path,
				Reason: fmt.Sprintf("invalid delimiter %q", delimiter),
			}
		}
		return Encoding{Format: FormatDelimited, Delimiter: delimiter}, nil
	case "json":
		return Encoding{Format: FormatJSON}, nil
	case "parquet":
		return Encoding{Format: FormatParquet}, nil
	}

	return Encoding{}, &UnsupportedFormatError{
		Path:   path,
		Reason: fmt.Sprintf("unrecognized extension %q", "."+ext),
	}
}

// extension returns the text after the final dot of the base name.
// Names without a dot, and dotfiles such as ".env", have no extension.
// "data." has an empty one.
func extension(path string) (string, bool) {
	base := filepath.Base(path)
	i := strings.LastIndexByte(base, '.')
	if i <= 0 {
		return "", false
	}
	return base[i+1:], true
}

// validDelimiter mirrors the checks encoding/csv applies to Reader.Comma.
func validDelimiter(r rune) bool {
	return r != 0 && r != '"' && r != '\r' && r != '\n' &&
		utf8.ValidRune(r) && r != utf8.RuneError
}
