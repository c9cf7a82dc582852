package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fadilmartias/jobapply/internal/model"
	"github.com/google/uuid"
)

var ErrDraftNotFound = errors.New("draft not found")

// DraftRepositoryInterface stores drafts. Implementations hand out copies, so a caller
// mutating a loaded draft changes nothing until it calls UpdateDraft.
type DraftRepositoryInterface interface {
	CreateDraft(ctx context.Context, draft *model.Draft) error
	FindDraftByID(ctx context.Context, id uuid.UUID) (*model.Draft, error)
	UpdateDraft(ctx context.Context, draft *model.Draft) error
	DeleteDraft(ctx context.Context, id uuid.UUID) error
	Ping(ctx context.Context) error
}

// ExpiredDraftPurger is implemented by stores that do not expire drafts on their own.
type ExpiredDraftPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

func encodeDraft(draft *model.Draft) ([]byte, error) {
	b, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("encode draft %s: %w", draft.ID, err)
	}
	return b, nil
}

func decodeDraft(b []byte) (*model.Draft, error) {
	var draft model.Draft
	if err := json.Unmarshal(b, &draft); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	if draft.Touched == nil {
		draft.Touched = map[string]bool{}
	}
	return &draft, nil
}
