package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/placement-admin/internal/domain"
)

const subjectsKey = "verification:subjects"

// SubjectMirror is the single authoritative local mirror of upstream subject
// state. It is only written after a successful backend response, never
// optimistically ahead of one.
type SubjectMirror struct {
	client *redis.Client
	logger *zap.Logger
	ttl    time.Duration
}

// NewSubjectMirror constructs the mirror.
func NewSubjectMirror(client *redis.Client, logger *zap.Logger, ttlSeconds int) *SubjectMirror {
	if ttlSeconds <= 0 {
		ttlSeconds = 120
	}
	return &SubjectMirror{
		client: client,
		logger: logger,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}
}

// Get returns the mirrored subject list; ok is false on miss or decode failure.
func (m *SubjectMirror) Get(ctx context.Context) ([]domain.Subject, bool) {
	if m == nil || m.client == nil {
		return nil, false
	}
	raw, err := m.client.Get(ctx, subjectsKey).Bytes()
	if err != nil {
		return nil, false
	}
	subjects, err := decodeSubjects(raw)
	if err != nil {
		m.logger.Warn("subject mirror corrupt, discarding", zap.Error(err))
		_ = m.client.Del(ctx, subjectsKey).Err()
		return nil, false
	}
	return subjects, true
}

func decodeSubjects(raw []byte) ([]domain.Subject, error) {
	var subjects []domain.Subject
	if err := json.Unmarshal(raw, &subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}

// ReplaceAll overwrites the mirror with a fresh upstream snapshot.
func (m *SubjectMirror) ReplaceAll(ctx context.Context, subjects []domain.Subject) {
	if m == nil || m.client == nil {
		return
	}
	encoded, err := json.Marshal(subjects)
	if err != nil {
		m.logger.Warn("encode subject mirror", zap.Error(err))
		return
	}
	if err := m.client.Set(ctx, subjectsKey, encoded, m.ttl).Err(); err != nil {
		m.logger.Warn("write subject mirror", zap.Error(err))
	}
}

// ApplyDecision replaces the mirrored state of the subject holding the given
// verification id with the server-confirmed status. Subjects not in the
// mirror are left alone; the next list refresh picks them up.
func (m *SubjectMirror) ApplyDecision(ctx context.Context, verificationID string, status domain.KYCStatus, data *domain.KYCData) {
	if m == nil || m.client == nil {
		return
	}
	subjects, ok := m.Get(ctx)
	if !ok {
		return
	}
	m.ReplaceAll(ctx, ReplaceByVerificationID(subjects, verificationID, status, data))
}

// ReplaceByVerificationID rewrites the subject carrying the given verification
// attempt with its confirmed status and data. Every other subject, including
// those without any attempt, comes back untouched.
func ReplaceByVerificationID(subjects []domain.Subject, verificationID string, status domain.KYCStatus, data *domain.KYCData) []domain.Subject {
	for i := range subjects {
		if subjects[i].KYCData != nil && subjects[i].KYCData.VerificationID == verificationID {
			subjects[i].KYCStatus = status
			if data != nil {
				subjects[i].KYCData = data
			}
		}
	}
	return subjects
}

// Invalidate drops the mirror so the next read refreshes from upstream.
func (m *SubjectMirror) Invalidate(ctx context.Context) {
	if m == nil || m.client == nil {
		return
	}
	_ = m.client.Del(ctx, subjectsKey).Err()
}
