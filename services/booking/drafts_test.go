package booking

import (
	"context"
	"testing"

	"trimly/utils"
)

// fakeDraftStore is an in-memory DraftStore.
type fakeDraftStore struct {
	records map[string]DraftRecord
}

func newFakeDraftStore() *fakeDraftStore {
	return &fakeDraftStore{records: make(map[string]DraftRecord)}
}

func (s *fakeDraftStore) Save(ctx context.Context, draftID string, record DraftRecord) error {
	s.records[draftID] = record
	return nil
}

func (s *fakeDraftStore) Load(ctx context.Context, draftID string) (*DraftRecord, error) {
	record, ok := s.records[draftID]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (s *fakeDraftStore) Delete(ctx context.Context, draftID string) error {
	delete(s.records, draftID)
	return nil
}

func TestCreateDraftRequiresAuthentication(t *testing.T) {
	svc := newTestService(&fakeBookingRepo{})

	_, _, err := svc.CreateDraft(context.Background(), "")
	if kind := utils.AsAppError(err).Kind; kind != utils.KindAuthFailure {
		t.Fatalf("kind = %v, want %v", kind, utils.KindAuthFailure)
	}
}

func TestDraftActionsScopedToOwner(t *testing.T) {
	svc := newTestService(&fakeBookingRepo{})
	ctx := context.Background()

	draftID, _, err := svc.CreateDraft(ctx, "u1")
	if err != nil {
		t.Fatalf("CreateDraft failed: %v", err)
	}

	_, err = svc.ApplyDraftAction(ctx, draftID, "u2", DraftAction{Op: OpSelectService, ServiceID: 1})
	if err == nil {
		t.Fatal("another user must not be able to mutate the draft")
	}
	if kind := utils.AsAppError(err).Kind; kind != utils.KindValidation {
		t.Fatalf("kind = %v, a foreign draft must look missing", kind)
	}

	if _, err := svc.ConfirmDraft(ctx, draftID, "u2", ""); err == nil {
		t.Fatal("another user must not be able to confirm the draft")
	}

	// The owner is unaffected.
	draft, err := svc.ApplyDraftAction(ctx, draftID, "u1", DraftAction{Op: OpSelectService, ServiceID: 1})
	if err != nil {
		t.Fatalf("owner action failed: %v", err)
	}
	if draft.Service == nil || draft.Service.Name != "Haircut" {
		t.Fatalf("draft = %+v, want the owner's selection applied", draft)
	}
}

func TestApplyDraftActionUnknownDraft(t *testing.T) {
	svc := newTestService(&fakeBookingRepo{})

	_, err := svc.ApplyDraftAction(context.Background(), "missing", "u1", DraftAction{Op: OpBack})
	if kind := utils.AsAppError(err).Kind; kind != utils.KindValidation {
		t.Fatalf("kind = %v, want %v", kind, utils.KindValidation)
	}
}

func TestApplyDraftActionRejectsBadInput(t *testing.T) {
	svc := newTestService(&fakeBookingRepo{})
	ctx := context.Background()

	draftID, _, err := svc.CreateDraft(ctx, "u1")
	if err != nil {
		t.Fatalf("CreateDraft failed: %v", err)
	}

	cases := []DraftAction{
		{Op: OpSelectService, ServiceID: 99},
		{Op: OpSelectDate, Date: "15-09-2026"},
		{Op: OpSelectTime, Time: "13:00"},
		{Op: "teleport"},
	}
	for _, action := range cases {
		if _, err := svc.ApplyDraftAction(ctx, draftID, "u1", action); err == nil {
			t.Fatalf("action %+v should have been rejected", action)
		}
	}
}

func TestWizardEndToEnd(t *testing.T) {
	repo := &fakeBookingRepo{}
	svc := newTestService(repo)
	ctx := context.Background()

	draftID, _, err := svc.CreateDraft(ctx, "u1")
	if err != nil {
		t.Fatalf("CreateDraft failed: %v", err)
	}

	steps := []DraftAction{
		{Op: OpSelectService, ServiceID: 1},
		{Op: OpAdvance},
		{Op: OpSelectDate, Date: "2026-09-15"},
		{Op: OpSelectTime, Time: "10:00"},
		{Op: OpAdvance},
	}
	for _, action := range steps {
		if _, err := svc.ApplyDraftAction(ctx, draftID, "u1", action); err != nil {
			t.Fatalf("action %+v failed: %v", action, err)
		}
	}

	booking, err := svc.ConfirmDraft(ctx, draftID, "u1", "")
	if err != nil {
		t.Fatalf("ConfirmDraft failed: %v", err)
	}
	if booking.ServiceName != "Haircut" || booking.Date != "2026-09-15" || booking.Time != "10:00" {
		t.Fatalf("booking = %+v, want the wizard selections", booking)
	}
	if len(repo.bookings) != 1 {
		t.Fatalf("stored %d bookings, want 1", len(repo.bookings))
	}

	store := svc.Drafts.(*fakeDraftStore)
	if len(store.records) != 0 {
		t.Fatal("a confirmed draft must be deleted")
	}
}
