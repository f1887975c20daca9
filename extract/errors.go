package extract

import "errors"

var (
	// ErrUnsupportedFormat indicates no loader exists for the file's
	// extension.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrExtractFailed indicates the loader could not parse the file.
	ErrExtractFailed = errors.New("document extraction failed")
)
