package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fadilmartias/jobapply/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostgresDraftRepository keeps drafts in the application_drafts table. Rows past
// expires_at are invisible and removed by PurgeExpired.
type PostgresDraftRepository struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

func NewPostgresDraftRepository(db *gorm.DB, ttl time.Duration) *PostgresDraftRepository {
	return &PostgresDraftRepository{db: db, ttl: ttl, now: time.Now}
}

func (r *PostgresDraftRepository) CreateDraft(ctx context.Context, draft *model.Draft) error {
	payload, err := encodeDraft(draft)
	if err != nil {
		return err
	}
	record := model.DraftRecord{
		ID:        draft.ID,
		Step:      int(draft.Step),
		Payload:   string(payload),
		ExpiresAt: r.now().Add(r.ttl),
	}
	return r.db.WithContext(ctx).Create(&record).Error
}

func (r *PostgresDraftRepository) FindDraftByID(ctx context.Context, id uuid.UUID) (*model.Draft, error) {
	var record model.DraftRecord
	err := r.db.WithContext(ctx).First(&record, "id = ? AND expires_at > ?", id, r.now()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find draft %s: %w", id, err)
	}
	return decodeDraft([]byte(record.Payload))
}

func (r *PostgresDraftRepository) UpdateDraft(ctx context.Context, draft *model.Draft) error {
	payload, err := encodeDraft(draft)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).
		Model(&model.DraftRecord{}).
		Where("id = ? AND expires_at > ?", draft.ID, r.now()).
		Updates(map[string]any{
			"step":       int(draft.Step),
			"payload":    string(payload),
			"expires_at": r.now().Add(r.ttl),
		})
	if res.Error != nil {
		return fmt.Errorf("update draft %s: %w", draft.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrDraftNotFound
	}
	return nil
}

func (r *PostgresDraftRepository) DeleteDraft(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.DraftRecord{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete draft %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrDraftNotFound
	}
	return nil
}

// PurgeExpired deletes rows past their expiry and returns how many went.
func (r *PostgresDraftRepository) PurgeExpired(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.DraftRecord{}, "expires_at <= ?", r.now())
	return res.RowsAffected, res.Error
}

func (r *PostgresDraftRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
