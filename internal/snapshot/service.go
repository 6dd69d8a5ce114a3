package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/iwvelando/greenseat-forecast/pkg/commute"
	"github.com/iwvelando/greenseat-forecast/pkg/constants"
	"github.com/iwvelando/greenseat-forecast/pkg/validation"
	"go.uber.org/zap"
)

// ErrInvalidID is returned for an empty snapshot id.
var ErrInvalidID = errors.New("snapshot id must not be empty")

// Restored is the outcome of Service.Restore.
type Restored struct {
	Input   validation.RawInput
	Request commute.CalculationRequest
	// FromStore is false when the defaults were returned instead of a
	// stored snapshot.
	FromStore bool
}

// Service saves and restores validated calculator input.
type Service struct {
	store  Store
	ttl    time.Duration
	logger *zap.Logger
}

// NewService constructs a Service on top of store.
func NewService(logger *zap.Logger, store Store, ttl time.Duration) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		store = NewMemoryStore()
	}
	return &Service{store: store, ttl: ttl, logger: logger}
}

func key(id string) string {
	return constants.SnapshotKeyPrefix + id
}

// Save validates raw and stores its normalized form under id. Invalid input
// is not stored and is returned as a *validation.InputError.
func (s *Service) Save(ctx context.Context, id string, raw validation.RawInput) (validation.RawInput, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidID
	}

	request, inputErr := validation.Validate(raw)
	if inputErr != nil {
		return nil, inputErr
	}

	normalized := validation.ToRawInput(request)
	data, err := json.Marshal(normalized)
	if err != nil {
		return nil, err
	}
	if err := s.store.Set(ctx, key(id), string(data), s.ttl); err != nil {
		return nil, err
	}

	s.logger.Debug("snapshot saved",
		zap.String("op", "snapshot.Save"),
		zap.String("id", id),
	)
	return normalized, nil
}

// Restore returns the input stored under id. A snapshot that no longer
// decodes or validates is deleted and the defaults are returned instead.
func (s *Service) Restore(ctx context.Context, id string) (Restored, error) {
	defaults := Restored{Input: validation.DefaultInput(), Request: commute.DefaultRequest()}
	if strings.TrimSpace(id) == "" {
		return defaults, ErrInvalidID
	}

	data, ok, err := s.store.Get(ctx, key(id))
	if err != nil {
		return defaults, err
	}
	if !ok {
		return defaults, nil
	}

	var raw validation.RawInput
	decoder := json.NewDecoder(strings.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&raw); err != nil {
		s.discard(ctx, id, "snapshot is not valid JSON")
		return defaults, nil
	}

	request, inputErr := validation.Validate(raw)
	if inputErr != nil {
		s.discard(ctx, id, inputErr.Error())
		return defaults, nil
	}

	return Restored{Input: validation.ToRawInput(request), Request: request, FromStore: true}, nil
}

// Forget deletes the snapshot stored under id.
func (s *Service) Forget(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidID
	}
	return s.store.Delete(ctx, key(id))
}

func (s *Service) discard(ctx context.Context, id, reason string) {
	s.logger.Warn("discarding invalid snapshot",
		zap.String("op", "snapshot.Restore"),
		zap.String("id", id),
		zap.String("reason", reason),
	)
	if err := s.store.Delete(ctx, key(id)); err != nil {
		s.logger.Error("failed to delete invalid snapshot",
			zap.String("op", "snapshot.Restore"),
			zap.String("id", id),
			zap.Error(err),
		)
	}
}
