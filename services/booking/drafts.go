package booking

import (
	"context"
	"encoding/json"
	"fmt"

	"trimly/models"
	"trimly/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// DraftRecord is the persisted wizard envelope. The owner is the user who
// started the wizard; nobody else can read or mutate the draft.
type DraftRecord struct {
	Owner string              `json:"owner"`
	Draft models.BookingDraft `json:"draft"`
}

// DraftStore persists wizard drafts between requests.
type DraftStore interface {
	Save(ctx context.Context, draftID string, record DraftRecord) error
	// Load returns nil when the draft does not exist or has expired.
	Load(ctx context.Context, draftID string) (*DraftRecord, error)
	Delete(ctx context.Context, draftID string) error
}

// RedisDraftStore keeps drafts in the dedicated Redis database with a TTL,
// so abandoned wizards expire on their own.
type RedisDraftStore struct{}

// NewRedisDraftStore creates the Redis-backed draft store.
func NewRedisDraftStore() *RedisDraftStore {
	return &RedisDraftStore{}
}

func (RedisDraftStore) Save(ctx context.Context, draftID string, record DraftRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return utils.ClassifyBackendError("failed to store booking draft", err)
	}

	cacheClient := utils.GetDraftCacheClient()
	if err := cacheClient.Set(ctx, utils.DraftCachePrefix+draftID, data, utils.DraftTTL).Err(); err != nil {
		return utils.ClassifyBackendError("failed to store booking draft", err)
	}
	return nil
}

func (RedisDraftStore) Load(ctx context.Context, draftID string) (*DraftRecord, error) {
	cacheClient := utils.GetDraftCacheClient()
	data, err := cacheClient.Get(ctx, utils.DraftCachePrefix+draftID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, utils.ClassifyBackendError("failed to load booking draft", err)
	}

	var record DraftRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, utils.ClassifyBackendError("failed to parse booking draft", err)
	}
	return &record, nil
}

func (RedisDraftStore) Delete(ctx context.Context, draftID string) error {
	return utils.GetDraftCacheClient().Del(ctx, utils.DraftCachePrefix+draftID).Err()
}

// CreateDraft starts a new wizard instance owned by the user, persists it
// and returns its id. Drafts expire if the wizard is abandoned.
func (s *DefaultBookingService) CreateDraft(ctx context.Context, userID string) (string, models.BookingDraft, error) {
	if userID == "" {
		return "", models.BookingDraft{}, utils.NewAuthError("you must be logged in to book an appointment")
	}

	draftID := uuid.New().String()
	flow := NewFlow()

	if err := s.Drafts.Save(ctx, draftID, DraftRecord{Owner: userID, Draft: flow.Draft()}); err != nil {
		return "", models.BookingDraft{}, err
	}
	return draftID, flow.Draft(), nil
}

// ApplyDraftAction loads the user's draft, applies one wizard interaction
// and persists the result.
func (s *DefaultBookingService) ApplyDraftAction(ctx context.Context, draftID, userID string, action DraftAction) (models.BookingDraft, error) {
	flow, err := s.loadFlow(ctx, draftID, userID)
	if err != nil {
		return models.BookingDraft{}, err
	}

	switch action.Op {
	case OpSelectService:
		svc, ok := serviceByID(action.ServiceID)
		if !ok {
			return models.BookingDraft{}, utils.NewValidationError("unknown service")
		}
		flow.SelectService(svc)
	case OpSelectDate:
		if !validDate(action.Date) {
			return models.BookingDraft{}, utils.NewValidationError("date must be in YYYY-MM-DD format")
		}
		flow.SelectDate(action.Date)
	case OpSelectTime:
		if !isAvailableTime(action.Time) {
			return models.BookingDraft{}, utils.NewValidationError("time is outside opening hours")
		}
		flow.SelectTime(action.Time)
	case OpAdvance:
		if err := flow.Advance(); err != nil {
			return models.BookingDraft{}, err
		}
	case OpBack:
		flow.Back()
	default:
		return models.BookingDraft{}, utils.NewValidationError(fmt.Sprintf("unknown draft action %q", action.Op))
	}

	if err := s.Drafts.Save(ctx, draftID, DraftRecord{Owner: userID, Draft: flow.Draft()}); err != nil {
		return models.BookingDraft{}, err
	}
	return flow.Draft(), nil
}

// loadFlow rebuilds the wizard from the stored draft. A draft owned by
// someone else is indistinguishable from a missing one.
func (s *DefaultBookingService) loadFlow(ctx context.Context, draftID, userID string) (*Flow, error) {
	record, err := s.Drafts.Load(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if record == nil || record.Owner != userID {
		return nil, utils.NewValidationError("booking draft not found or expired")
	}
	return RestoreFlow(record.Draft), nil
}

func (s *DefaultBookingService) deleteDraft(ctx context.Context, draftID string) {
	if err := s.Drafts.Delete(ctx, draftID); err != nil {
		s.Logger.Sugar().Warnf("failed to delete booking draft %s: %v", draftID, err)
	}
}
