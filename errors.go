package tabular

import (
	"github.com/simonhull/tabular/internal/types"
)

// MissingExtensionError is an alias to types.MissingExtensionError.
// Re-exporting from internal/types to maintain public API.
type MissingExtensionError = types.MissingExtensionError

// UnsupportedFormatError is an alias to types.UnsupportedFormatError.
// Re-exporting from internal/types to maintain public API.
type UnsupportedFormatError = types.UnsupportedFormatError

// InvalidStructureError is an alias to types.InvalidStructureError.
// Re-exporting from internal/types to maintain public API.
type InvalidStructureError = types.InvalidStructureError

// CorruptedFileError is an alias to types.CorruptedFileError.
// Re-exporting from internal/types to maintain public API.
type CorruptedFileError = types.CorruptedFileError

// DecodeError is an alias to types.DecodeError.
// Re-exporting from internal/types to maintain public API.
type DecodeError = types.DecodeError

// IOError is an alias to types.IOError.
// Re-exporting from internal/types to maintain public API.
type IOError = types.IOError

// Warning is an alias to types.Warning.
// Re-exporting from internal/types to maintain public API.
type Warning = types.Warning
