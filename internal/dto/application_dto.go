package dto

import (
	"time"

	"github.com/fadilmartias/jobapply/internal/model"
	"github.com/google/uuid"
)

type AttachmentDTO struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// DraftDTO is a draft as returned to the client. Document payloads are never echoed back.
type DraftDTO struct {
	ID        uuid.UUID                 `json:"id"`
	Step      int                       `json:"step"`
	StepName  string                    `json:"step_name"`
	Values    model.Application         `json:"values"`
	Documents map[string]*AttachmentDTO `json:"documents"`
	Touched   []string                  `json:"touched"`
	Errors    map[string]string         `json:"errors"`
	CreatedAt time.Time                 `json:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at"`
}

type UpdateFieldsRequest struct {
	Fields map[string]any `json:"fields" validate:"required,min=1"`
}

type SubmitResultDTO struct {
	Reference string `json:"reference,omitempty"`
	Redirect  string `json:"redirect"`
}

func NewDraftDTO(d *model.Draft, errs map[string]string) DraftDTO {
	docs := make(map[string]*AttachmentDTO)
	for kind := range model.DocumentRules {
		att := d.Values.Document(kind)
		if att == nil {
			docs[string(kind)] = nil
			continue
		}
		docs[string(kind)] = &AttachmentDTO{
			Filename:    att.Filename,
			ContentType: att.ContentType,
			Size:        att.Size,
		}
	}
	if errs == nil {
		errs = map[string]string{}
	}
	return DraftDTO{
		ID:        d.ID,
		Step:      int(d.Step),
		StepName:  d.Step.String(),
		Values:    d.Values.WithoutDocuments(),
		Documents: docs,
		Touched:   d.TouchedPaths(),
		Errors:    errs,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
