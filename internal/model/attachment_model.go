package model

// DocumentKind names an upload slot on the application.
type DocumentKind string

const (
	DocumentProfilePic DocumentKind = "profilePic"
	DocumentCV         DocumentKind = "cv"
)

const MaxDocumentBytes = 1024 * 1024

type DocumentRule struct {
	MaxBytes     int64
	ContentTypes []string
	// RequirePages is set for documents that must open as a paged document.
	RequirePages bool
}

var DocumentRules = map[DocumentKind]DocumentRule{
	DocumentProfilePic: {
		MaxBytes:     MaxDocumentBytes,
		ContentTypes: []string{"image/jpeg", "image/png"},
	},
	DocumentCV: {
		MaxBytes:     MaxDocumentBytes,
		ContentTypes: []string{"application/pdf"},
		RequirePages: true,
	},
}

func ParseDocumentKind(s string) (DocumentKind, bool) {
	kind := DocumentKind(s)
	_, ok := DocumentRules[kind]
	return kind, ok
}

func (r DocumentRule) Accepts(contentType string) bool {
	for _, ct := range r.ContentTypes {
		if ct == contentType {
			return true
		}
	}
	return false
}

type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	Data        []byte `json:"data"`
}
