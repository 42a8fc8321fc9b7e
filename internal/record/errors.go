package record

import "errors"

// Sentinel errors reported by Decode. The Loader turns each of them into a
// diagnostic and an empty result.
var (
	// ErrFileNotFound indicates the record file does not exist.
	ErrFileNotFound = errors.New("record file not found")

	// ErrEmptyFile indicates the file holds nothing but whitespace.
	ErrEmptyFile = errors.New("record file is empty")

	// ErrUnsupportedFormat indicates the file extension is not a known record format.
	ErrUnsupportedFormat = errors.New("unsupported record format")

	// ErrMalformed indicates the content could not be parsed.
	ErrMalformed = errors.New("malformed record file")
)
