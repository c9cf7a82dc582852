package service

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fadilmartias/jobapply/internal/model"
	"github.com/fadilmartias/jobapply/internal/util"
	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrDocumentTooLarge    = errors.New("document too large")
	ErrUnsupportedDocument = errors.New("unsupported document")
)

type DocumentServiceInterface interface {
	Inspect(kind model.DocumentKind, filename string, data []byte) (*model.Attachment, error)
}

// PageCounter reports how many pages a paged document has.
type PageCounter func(data []byte) (int, error)

type DocumentService struct {
	countPages PageCounter
}

func NewDocumentService() *DocumentService {
	return &DocumentService{countPages: util.CountPDFPages}
}

func NewDocumentServiceWithPageCounter(counter PageCounter) *DocumentService {
	return &DocumentService{countPages: counter}
}

// Inspect checks an upload against the rule for its slot and returns it as an attachment.
// The content type is sniffed from the bytes; the client-declared type is ignored.
func (s *DocumentService) Inspect(kind model.DocumentKind, filename string, data []byte) (*model.Attachment, error) {
	rule, ok := model.DocumentRules[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown document %q", ErrUnsupportedDocument, kind)
	}
	if int64(len(data)) > rule.MaxBytes {
		return nil, fmt.Errorf("%s: %w (%d bytes)", kind, ErrDocumentTooLarge, len(data))
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), rule.ContentTypes...) {
		return nil, fmt.Errorf("%s: %w: detected %s", kind, ErrUnsupportedDocument, mtype.String())
	}

	if rule.RequirePages {
		pages, err := s.countPages(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %v", kind, ErrUnsupportedDocument, err)
		}
		if pages < 1 {
			return nil, fmt.Errorf("%s: %w: document has no pages", kind, ErrUnsupportedDocument)
		}
	}

	name := filepath.Base(filename)
	if name == "." || name == string(filepath.Separator) {
		name = string(kind) + mtype.Extension()
	}
	return &model.Attachment{
		Filename:    name,
		ContentType: mtype.String(),
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}
