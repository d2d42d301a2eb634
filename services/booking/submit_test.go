package booking

import (
	"context"
	"testing"

	bookingRepo "trimly/database/repository/booking"
	"trimly/models"
	"trimly/utils"

	"go.uber.org/zap"
)

// fakeBookingRepo is an in-memory BookingRepository enforcing (date, time)
// uniqueness the way the real collection's index does.
type fakeBookingRepo struct {
	bookings  []models.Booking
	findErr   error
	insertErr error
}

func (r *fakeBookingRepo) FindBySlot(date, timeLabel string) (*models.Booking, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for i := range r.bookings {
		if r.bookings[i].Date == date && r.bookings[i].Time == timeLabel {
			return &r.bookings[i], nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) Insert(booking *models.Booking) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	for i := range r.bookings {
		if r.bookings[i].Date == booking.Date && r.bookings[i].Time == booking.Time {
			return bookingRepo.ErrSlotTaken
		}
	}
	r.bookings = append(r.bookings, *booking)
	return nil
}

func (r *fakeBookingRepo) ListByUser(userID string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func newTestService(repo *fakeBookingRepo) *DefaultBookingService {
	return &DefaultBookingService{
		Repo:   repo,
		Drafts: newFakeDraftStore(),
		Logger: zap.NewNop(),
	}
}

func readyFlow(serviceID int, date, timeLabel string) *Flow {
	flow := NewFlow()
	svc, _ := serviceByID(serviceID)
	flow.SelectService(svc)
	flow.Advance()
	flow.SelectDate(date)
	flow.SelectTime(timeLabel)
	flow.Advance()
	return flow
}

func TestSubmitCreatesBooking(t *testing.T) {
	repo := &fakeBookingRepo{}
	svc := newTestService(repo)
	flow := readyFlow(1, "2026-09-15", "10:00")

	booking, err := svc.submit(context.Background(), flow, "u1")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if booking.ServiceName != "Haircut" || booking.ServicePrice != 30 {
		t.Fatalf("booking = %+v, want the selected service carried over", booking)
	}
	if booking.Date != "2026-09-15" || booking.Time != "10:00" {
		t.Fatalf("booking slot = %s %s, want the selected slot", booking.Date, booking.Time)
	}
	if len(repo.bookings) != 1 {
		t.Fatalf("stored %d bookings, want 1", len(repo.bookings))
	}
	if flow.Step() != StepService || flow.Draft().Service != nil {
		t.Fatal("a successful submit must reset the wizard")
	}
}

func TestSubmitRejectsTakenSlot(t *testing.T) {
	repo := &fakeBookingRepo{bookings: []models.Booking{
		{ID: "b1", Date: "2026-09-15", Time: "10:00", UserID: "other"},
	}}
	svc := newTestService(repo)
	flow := readyFlow(1, "2026-09-15", "10:00")

	_, err := svc.submit(context.Background(), flow, "u1")
	if err == nil {
		t.Fatal("expected the taken slot to be rejected")
	}
	if kind := utils.AsAppError(err).Kind; kind != utils.KindConflict {
		t.Fatalf("kind = %v, want %v", kind, utils.KindConflict)
	}
	if len(repo.bookings) != 1 {
		t.Fatalf("stored %d bookings, the rejected submit must not insert", len(repo.bookings))
	}
	if flow.Draft().Service == nil {
		t.Fatal("a failed submit must leave the wizard state intact")
	}
}

func TestSubmitDifferentTimeSucceeds(t *testing.T) {
	repo := &fakeBookingRepo{bookings: []models.Booking{
		{ID: "b1", Date: "2026-09-15", Time: "10:00", UserID: "other"},
	}}
	svc := newTestService(repo)
	flow := readyFlow(1, "2026-09-15", "11:00")

	if _, err := svc.submit(context.Background(), flow, "u1"); err != nil {
		t.Fatalf("submit at a free time failed: %v", err)
	}
	if len(repo.bookings) != 2 {
		t.Fatalf("stored %d bookings, want 2", len(repo.bookings))
	}
}

func TestSubmitInsertRaceMapsToConflict(t *testing.T) {
	// Pre-check sees a free slot, the insert then hits the unique index.
	repo := &fakeBookingRepo{insertErr: bookingRepo.ErrSlotTaken}
	svc := newTestService(repo)
	flow := readyFlow(2, "2026-09-15", "14:00")

	_, err := svc.submit(context.Background(), flow, "u1")
	if kind := utils.AsAppError(err).Kind; kind != utils.KindConflict {
		t.Fatalf("kind = %v, want %v", kind, utils.KindConflict)
	}
}

func TestSubmitRequiresAuthentication(t *testing.T) {
	repo := &fakeBookingRepo{}
	svc := newTestService(repo)
	flow := readyFlow(1, "2026-09-15", "10:00")

	_, err := svc.submit(context.Background(), flow, "")
	if kind := utils.AsAppError(err).Kind; kind != utils.KindAuthFailure {
		t.Fatalf("kind = %v, want %v", kind, utils.KindAuthFailure)
	}
	if len(repo.bookings) != 0 {
		t.Fatal("an unauthenticated submit must not insert")
	}
}

func TestSubmitRequiresCompleteDraft(t *testing.T) {
	repo := &fakeBookingRepo{}
	svc := newTestService(repo)

	flow := NewFlow()
	if _, err := svc.submit(context.Background(), flow, "u1"); err == nil {
		t.Fatal("expected a draft without a service to be rejected")
	}

	chosen, _ := serviceByID(1)
	flow.SelectService(chosen)
	_, err := svc.submit(context.Background(), flow, "u1")
	if kind := utils.AsAppError(err).Kind; kind != utils.KindValidation {
		t.Fatalf("kind = %v, want %v", kind, utils.KindValidation)
	}
}

func TestUserStatsAggregatesHistory(t *testing.T) {
	repo := &fakeBookingRepo{bookings: []models.Booking{
		{ID: "b1", UserID: "u1", ServicePrice: 30},
		{ID: "b2", UserID: "u1", ServicePrice: 25},
		{ID: "b3", UserID: "other", ServicePrice: 20},
	}}
	svc := newTestService(repo)

	stats, err := svc.UserStats("u1")
	if err != nil {
		t.Fatalf("UserStats failed: %v", err)
	}
	if stats.TotalBookings != 2 {
		t.Fatalf("total bookings = %d, want 2", stats.TotalBookings)
	}
	if stats.TotalSpent != 55 {
		t.Fatalf("total spent = %v, want 55", stats.TotalSpent)
	}
}

func TestCatalogMatchesShopServices(t *testing.T) {
	svc := newTestService(&fakeBookingRepo{})

	catalog := svc.Catalog()
	if len(catalog) != 3 {
		t.Fatalf("catalog size = %d, want 3", len(catalog))
	}
	if catalog[0].Name != "Haircut" || catalog[0].Price != 30 {
		t.Fatalf("catalog[0] = %+v, want Haircut at 30", catalog[0])
	}

	times := svc.AvailableTimes()
	for _, label := range times {
		if label == "13:00" {
			t.Fatal("13:00 is the lunch break and must not be bookable")
		}
	}
	if !isAvailableTime("09:00") || !isAvailableTime("18:00") {
		t.Fatal("opening and closing slots must be bookable")
	}
}
