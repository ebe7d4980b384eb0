package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/clinovara/tmf-backend/internal/logger"
	"github.com/clinovara/tmf-backend/internal/types"
)

const historyMaxEntries = 20

// HistoryStore keeps recent validation results per document in Redis. Entries
// expire after the configured TTL; validation history is a convenience view,
// not a system of record.
type HistoryStore interface {
	Append(ctx context.Context, documentID uuid.UUID, res *types.ValidationResult) error
	List(ctx context.Context, documentID uuid.UUID) ([]types.ValidationResult, error)
}

type historyStore struct {
	rdb *goredis.Client
	ttl time.Duration
	log *logger.Logger
}

func NewHistoryStore(rdb *goredis.Client, ttl time.Duration, log *logger.Logger) HistoryStore {
	return &historyStore{
		rdb: rdb,
		ttl: ttl,
		log: log.With("service", "ValidationHistory"),
	}
}

func historyKey(documentID uuid.UUID) string {
	return "validation:history:" + documentID.String()
}

func (s *historyStore) Append(ctx context.Context, documentID uuid.UUID, res *types.ValidationResult) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal validation result: %w", err)
	}
	key := historyKey(documentID)
	pipe := s.rdb.TxPipeline()
	pipe.LPush(ctx, key, raw)
	pipe.LTrim(ctx, key, 0, historyMaxEntries-1)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store validation history: %w", err)
	}
	return nil
}

func (s *historyStore) List(ctx context.Context, documentID uuid.UUID) ([]types.ValidationResult, error) {
	raws, err := s.rdb.LRange(ctx, historyKey(documentID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read validation history: %w", err)
	}
	out := make([]types.ValidationResult, 0, len(raws))
	for _, raw := range raws {
		var res types.ValidationResult
		if err := json.Unmarshal([]byte(raw), &res); err != nil {
			s.log.Warn("Skipping corrupt validation history entry", "documentId", documentID, "error", err)
			continue
		}
		out = append(out, res)
	}
	return out, nil
}
