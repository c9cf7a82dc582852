package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fadilmartias/jobapply/internal/model"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const draftKeyPrefix = "draft:"

// RedisDraftRepository stores each draft as a JSON string under draft:<id>. The key TTL is
// refreshed on every write.
type RedisDraftRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDraftRepository(client *redis.Client, ttl time.Duration) *RedisDraftRepository {
	return &RedisDraftRepository{client: client, ttl: ttl}
}

func draftKey(id uuid.UUID) string {
	return draftKeyPrefix + id.String()
}

func (r *RedisDraftRepository) CreateDraft(ctx context.Context, draft *model.Draft) error {
	val, err := encodeDraft(draft)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, draftKey(draft.ID), val, r.ttl).Err(); err != nil {
		return fmt.Errorf("error saving draft to redis: %w", err)
	}
	return nil
}

func (r *RedisDraftRepository) FindDraftByID(ctx context.Context, id uuid.UUID) (*model.Draft, error) {
	val, err := r.client.Get(ctx, draftKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error get draft in redis: %w", err)
	}
	return decodeDraft(val)
}

func (r *RedisDraftRepository) UpdateDraft(ctx context.Context, draft *model.Draft) error {
	val, err := encodeDraft(draft)
	if err != nil {
		return err
	}
	ok, err := r.client.SetXX(ctx, draftKey(draft.ID), val, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("error updating draft in redis: %w", err)
	}
	if !ok {
		return ErrDraftNotFound
	}
	return nil
}

func (r *RedisDraftRepository) DeleteDraft(ctx context.Context, id uuid.UUID) error {
	n, err := r.client.Del(ctx, draftKey(id)).Result()
	if err != nil {
		return fmt.Errorf("error deleting draft in redis: %w", err)
	}
	if n == 0 {
		return ErrDraftNotFound
	}
	return nil
}

func (r *RedisDraftRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
