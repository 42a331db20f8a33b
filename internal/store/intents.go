package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/placement-admin/internal/domain"
	apperrors "github.com/spec-kit/placement-admin/pkg/util"
)

// IntentKind distinguishes staged directory mutations.
type IntentKind string

const (
	IntentStatusChange IntentKind = "status_change"
	IntentRemoval      IntentKind = "removal"
)

// StagedIntent is a destructive directory mutation waiting for explicit
// confirmation. It lives only in Redis; the operator record is untouched
// until the intent is confirmed.
type StagedIntent struct {
	Token        string                `json:"token"`
	Kind         IntentKind            `json:"kind"`
	OperatorID   string                `json:"operator_id"`
	TargetStatus domain.OperatorStatus `json:"target_status,omitempty"`
	StagedBy     string                `json:"staged_by"`
	StagedAt     time.Time             `json:"staged_at"`
	ExpiresAt    time.Time             `json:"expires_at"`
}

// IntentStore persists staged intents with a TTL.
type IntentStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIntentStore constructs the store.
func NewIntentStore(client *redis.Client, ttlMinutes int) *IntentStore {
	if ttlMinutes <= 0 {
		ttlMinutes = 5
	}
	return &IntentStore{client: client, ttl: time.Duration(ttlMinutes) * time.Minute}
}

// TTL exposes the staging window.
func (s *IntentStore) TTL() time.Duration {
	return s.ttl
}

// Put stages an intent under its confirmation token.
func (s *IntentStore) Put(ctx context.Context, intent *StagedIntent) error {
	if s == nil || s.client == nil {
		return apperrors.NewInternalError(nil)
	}
	encoded, err := json.Marshal(intent)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return s.client.Set(ctx, s.key(intent.Token), encoded, s.ttl).Err()
}

// Take retrieves an intent and atomically removes it so a confirmation token
// can be spent exactly once.
func (s *IntentStore) Take(ctx context.Context, token string) (*StagedIntent, error) {
	if s == nil || s.client == nil {
		return nil, apperrors.NewInternalError(nil)
	}
	raw, err := s.client.GetDel(ctx, s.key(token)).Bytes()
	if err == redis.Nil {
		return nil, apperrors.NewNotFound("staged change", map[string]any{"token": token})
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	var intent StagedIntent
	if err := json.Unmarshal(raw, &intent); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &intent, nil
}

func (s *IntentStore) key(token string) string {
	return "staged:" + token
}
