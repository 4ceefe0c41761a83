package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/overtime-backend-go/internal/domain/overtime"
	rediskey "github.com/cmlabs-hris/overtime-backend-go/internal/pkg/redis"
	"github.com/cmlabs-hris/overtime-backend-go/internal/repository/blob"
	goredis "github.com/redis/go-redis/v9"
)

type recordRepository struct {
	client *goredis.Client
	key    string
}

// NewRecordRepository stores the collection as a single JSON string value.
func NewRecordRepository(client *goredis.Client, prefix string) overtime.RecordRepository {
	return &recordRepository{
		client: client,
		key:    rediskey.Key(prefix, blob.CollectionKey),
	}
}

// Load implements overtime.RecordRepository.
func (r *recordRepository) Load(ctx context.Context) ([]overtime.Record, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return []overtime.Record{}, nil
		}
		return nil, fmt.Errorf("failed to get %s: %w", r.key, err)
	}
	return blob.Decode(data)
}

// Save implements overtime.RecordRepository.
func (r *recordRepository) Save(ctx context.Context, records []overtime.Record) error {
	data, err := blob.Encode(records)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", r.key, err)
	}
	return nil
}

// Clear implements overtime.RecordRepository.
func (r *recordRepository) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", r.key, err)
	}
	return nil
}
