package util

import (
	"fmt"

	"github.com/gen2brain/go-fitz"
)

// CountPDFPages opens an in-memory PDF and returns its page count.
func CountPDFPages(data []byte) (int, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		// a failed open still hands back its context
		if doc != nil {
			doc.Close()
		}
		return 0, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	return doc.NumPage(), nil
}
