// Package errors provides structured error handling for folder2index.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Argument and configuration errors
//   - 2XX: Enumeration errors (missing or unreadable entries)
//   - 3XX: Decode and file read errors
//   - 4XX: Extraction errors
//   - 5XX: Index I/O errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryArgument indicates invalid command-line arguments or configuration.
	CategoryArgument Category = "ARGUMENT"
	// CategoryEnumeration indicates a file or directory that could not be enumerated.
	CategoryEnumeration Category = "ENUMERATION"
	// CategoryDecode indicates a file whose bytes could not be read or decoded.
	CategoryDecode Category = "DECODE"
	// CategoryExtraction indicates content the extractor could not parse.
	CategoryExtraction Category = "EXTRACTION"
	// CategoryIndex indicates the index target could not be opened, written or closed.
	CategoryIndex Category = "INDEX"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, the run must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates the current file failed but the run continues.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates an entry was excluded, the run continues.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Argument errors (100-199)
	ErrCodeInvalidArgument = "ERR_101_INVALID_ARGUMENT"
	ErrCodeConfigInvalid   = "ERR_102_CONFIG_INVALID"
	ErrCodeUnknownCharset  = "ERR_103_UNKNOWN_CHARSET"

	// Enumeration errors (200-299)
	ErrCodeFileUnreadable      = "ERR_201_FILE_UNREADABLE"
	ErrCodeDirectoryUnreadable = "ERR_202_DIRECTORY_UNREADABLE"
	ErrCodeDirectoryCycle      = "ERR_203_DIRECTORY_CYCLE"

	// Decode errors (300-399)
	ErrCodeDecodeFailed = "ERR_301_DECODE_FAILED"
	ErrCodeFileRead     = "ERR_302_FILE_READ"

	// Extraction errors (400-499)
	ErrCodeExtractionFailed = "ERR_401_EXTRACTION_FAILED"

	// Index errors (500-599)
	ErrCodeIndexOpen   = "ERR_501_INDEX_OPEN"
	ErrCodeIndexWrite  = "ERR_502_INDEX_WRITE"
	ErrCodeIndexClose  = "ERR_503_INDEX_CLOSE"
	ErrCodeIndexLocked = "ERR_504_INDEX_LOCKED"

	// Internal errors (900-999)
	ErrCodeInternal = "ERR_901_INTERNAL"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// Extract numeric portion (e.g., "101" from "ERR_101_INVALID_ARGUMENT")
	switch code[4] {
	case '1':
		return CategoryArgument
	case '2':
		return CategoryEnumeration
	case '3':
		return CategoryDecode
	case '4':
		return CategoryExtraction
	case '5':
		return CategoryIndex
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
// Decode errors are fatal while extraction errors only fail the current file.
func severityFromCode(code string) Severity {
	switch categoryFromCode(code) {
	case CategoryEnumeration:
		return SeverityWarning
	case CategoryExtraction:
		return SeverityError
	default:
		return SeverityFatal
	}
}
