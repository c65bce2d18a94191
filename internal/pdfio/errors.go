package pdfio

import "errors"

var (
	// ErrNotPDF is returned when an upload does not carry the PDF magic
	// bytes. Content sniffing happens before any parsing.
	ErrNotPDF = errors.New("file is not a valid PDF")

	// ErrNoText is returned when a structurally valid PDF yields no
	// extractable text (e.g. a pure image scan).
	ErrNoText = errors.New("no extractable text in PDF")
)
