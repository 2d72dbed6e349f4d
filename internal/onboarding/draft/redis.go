package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"startup-onboarding/internal/common/logger"
	"startup-onboarding/internal/common/metrics"
	"startup-onboarding/internal/onboarding/form"
)

// RedisStore keeps draft snapshots in Redis with no expiry. Failures
// are logged and counted but never surfaced; a missing or corrupt
// value is indistinguishable from "no saved state".
type RedisStore struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
	logger  logger.Logger
}

func NewRedisStore(client *redis.Client, prefix string, timeout time.Duration, log logger.Logger) *RedisStore {
	if prefix == "" {
		prefix = "startup-onboarding"
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &RedisStore{
		client:  client,
		prefix:  prefix,
		timeout: timeout,
		logger:  log,
	}
}

func (s *RedisStore) draftKey(userID string) string {
	return fmt.Sprintf("%s-form-data:%s", s.prefix, userID)
}

func (s *RedisStore) stepKey(userID string) string {
	return fmt.Sprintf("%s-current-step:%s", s.prefix, userID)
}

func (s *RedisStore) LoadDraft(ctx context.Context, userID string) (*form.StartupFormData, bool) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.client.Get(ctx, s.draftKey(userID)).Result()
	if err != nil {
		if err != redis.Nil {
			s.reportError("load_draft", userID, err)
		}
		return nil, false
	}

	var data form.StartupFormData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		s.reportError("load_draft", userID, err)
		return nil, false
	}
	return &data, true
}

func (s *RedisStore) SaveDraft(ctx context.Context, userID string, data *form.StartupFormData) {
	if data == nil {
		return
	}
	raw, err := json.Marshal(data)
	if err != nil {
		s.reportError("save_draft", userID, err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.client.Set(ctx, s.draftKey(userID), raw, 0).Err(); err != nil {
		s.reportError("save_draft", userID, err)
	}
}

func (s *RedisStore) LoadStep(ctx context.Context, userID string) (int, bool) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.client.Get(ctx, s.stepKey(userID)).Result()
	if err != nil {
		if err != redis.Nil {
			s.reportError("load_step", userID, err)
		}
		return 0, false
	}

	step, err := strconv.Atoi(raw)
	if err != nil {
		s.reportError("load_step", userID, err)
		return 0, false
	}
	return step, true
}

func (s *RedisStore) SaveStep(ctx context.Context, userID string, step int) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.client.Set(ctx, s.stepKey(userID), strconv.Itoa(step), 0).Err(); err != nil {
		s.reportError("save_step", userID, err)
	}
}

func (s *RedisStore) Clear(ctx context.Context, userID string) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.client.Del(ctx, s.draftKey(userID), s.stepKey(userID)).Err(); err != nil {
		s.reportError("clear", userID, err)
	}
}

func (s *RedisStore) reportError(operation, userID string, err error) {
	metrics.DraftStoreErrors.WithLabelValues(operation).Inc()
	if s.logger != nil {
		s.logger.WithFields(map[string]interface{}{
			"operation": operation,
			"userId":    userID,
		}).WithError(err).Warn("Draft store operation failed, continuing without persistence", nil)
	}
}
