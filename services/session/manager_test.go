package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"trimly/models"
	"trimly/services/auth"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// fakeProvider is an in-memory auth.Provider with scripted results and
// call counters.
type fakeProvider struct {
	mu sync.Mutex

	tokenUser *models.User
	tokenErr  error

	usersByID map[string]*models.User

	verifyCreds *auth.Credentials
	verifyErr   error

	signInCreds *auth.Credentials
	signInErr   error

	refreshCreds *auth.Credentials
	refreshErr   error

	signOutErr error

	otpSends      int
	signOutCalls  int
	unsubscribed  int
	updatedUserID string

	events chan models.AuthEvent
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		usersByID: make(map[string]*models.User),
		events:    make(chan models.AuthEvent, 32),
	}
}

func (p *fakeProvider) SendOtp(ctx context.Context, phone string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.otpSends++
	return nil
}

func (p *fakeProvider) VerifyOtp(ctx context.Context, phone, code string, purpose auth.OtpPurpose, deviceID string) (*auth.Credentials, error) {
	if p.verifyErr != nil {
		return nil, p.verifyErr
	}
	return p.verifyCreds, nil
}

func (p *fakeProvider) SignInWithPassword(ctx context.Context, phone, password, deviceID string) (*auth.Credentials, error) {
	if p.signInErr != nil {
		return nil, p.signInErr
	}
	return p.signInCreds, nil
}

func (p *fakeProvider) UpdateUser(ctx context.Context, userID string, update auth.UserUpdate) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updatedUserID = userID
	if u, ok := p.usersByID[userID]; ok && update.Metadata != nil {
		u.Metadata = *update.Metadata
	}
	return nil
}

func (p *fakeProvider) GetUserByToken(ctx context.Context, token string) (*models.User, error) {
	return p.tokenUser, p.tokenErr
}

func (p *fakeProvider) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.usersByID[id], nil
}

func (p *fakeProvider) RefreshToken(ctx context.Context, token string) (*auth.Credentials, error) {
	if p.refreshErr != nil {
		return nil, p.refreshErr
	}
	if p.refreshCreds == nil {
		return nil, errors.New("not scripted")
	}
	return p.refreshCreds, nil
}

func (p *fakeProvider) SignOut(ctx context.Context, userID, deviceID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.signOutCalls++
	return p.signOutErr
}

func (p *fakeProvider) Subscribe() (int, <-chan models.AuthEvent) {
	return 1, p.events
}

func (p *fakeProvider) Unsubscribe(id int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.unsubscribed++
}

func (p *fakeProvider) sentOtps() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.otpSends
}

func (p *fakeProvider) updatedUser() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.updatedUserID
}

// fakeClients is an in-memory ClientRepository.
type fakeClients struct {
	mu       sync.Mutex
	profiles map[string]*models.ClientProfile
	getErr   error
}

func newFakeClients() *fakeClients {
	return &fakeClients{profiles: make(map[string]*models.ClientProfile)}
}

func (c *fakeClients) GetByID(id string) (*models.ClientProfile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.profiles[id], nil
}

func (c *fakeClients) Upsert(profile *models.ClientProfile) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profiles[profile.ID] = profile
	return nil
}

func (c *fakeClients) UpdateFields(id string, fields bson.M) error {
	return nil
}

func newTestManager(provider *fakeProvider, clients *fakeClients) *Manager {
	return NewManager("dev-1", provider, clients, zap.NewNop())
}

func waitForStatus(t *testing.T, m *Manager, want models.AuthStatus) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if m.Status() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("status = %v, want %v", m.Status(), want)
}

func TestInitializeWithoutToken(t *testing.T) {
	m := newTestManager(newFakeProvider(), newFakeClients())
	defer m.Close()

	status := m.Initialize(context.Background(), "")
	if status != models.AuthStatusUnauthenticated {
		t.Fatalf("status = %v, want %v", status, models.AuthStatusUnauthenticated)
	}
	if m.CurrentUser() != nil {
		t.Fatalf("expected nil current user, got %+v", m.CurrentUser())
	}
}

func TestInitializeWithValidToken(t *testing.T) {
	provider := newFakeProvider()
	provider.tokenUser = &models.User{
		ID:       "u1",
		Phone:    "+40712345678",
		Metadata: models.UserMetadata{FullName: "Ana Pop"},
	}
	clients := newFakeClients()
	clients.profiles["u1"] = &models.ClientProfile{ID: "u1", Address: "Str. Florilor 3"}

	m := newTestManager(provider, clients)
	defer m.Close()

	status := m.Initialize(context.Background(), "some-token")
	if status != models.AuthStatusAuthenticated {
		t.Fatalf("status = %v, want %v", status, models.AuthStatusAuthenticated)
	}

	account := m.CurrentUser()
	if account == nil {
		t.Fatal("expected a current user")
	}
	if account.Name != "Ana Pop" {
		t.Fatalf("name = %q, want %q", account.Name, "Ana Pop")
	}
	if account.Address != "Str. Florilor 3" {
		t.Fatalf("address = %q, want profile address merged", account.Address)
	}
	if m.Token() != "some-token" {
		t.Fatalf("token = %q, want the presented token retained", m.Token())
	}
}

func TestInitializeBackendFailureResolvesUnauthenticated(t *testing.T) {
	provider := newFakeProvider()
	provider.tokenErr = errors.New("backend down")

	m := newTestManager(provider, newFakeClients())
	defer m.Close()

	status := m.Initialize(context.Background(), "stale-token")
	if status != models.AuthStatusUnauthenticated {
		t.Fatalf("status = %v, want unresolved sessions to settle UNAUTHENTICATED", status)
	}
}

func TestInitializeResolvesOnlyOnce(t *testing.T) {
	provider := newFakeProvider()
	provider.tokenUser = &models.User{ID: "u1", Metadata: models.UserMetadata{FullName: "Ana"}}

	m := newTestManager(provider, newFakeClients())
	defer m.Close()

	first := m.Initialize(context.Background(), "tok")
	second := m.Initialize(context.Background(), "")
	if first != models.AuthStatusAuthenticated || second != models.AuthStatusAuthenticated {
		t.Fatalf("statuses = %v, %v; a later call must not re-resolve", first, second)
	}
}

func TestEventsAppliedInArrivalOrder(t *testing.T) {
	provider := newFakeProvider()
	provider.usersByID["u1"] = &models.User{ID: "u1", Metadata: models.UserMetadata{FullName: "Ana"}}

	m := newTestManager(provider, newFakeClients())
	defer m.Close()
	m.Initialize(context.Background(), "")

	provider.events <- models.AuthEvent{Type: models.AuthEventSignedIn, UserID: "u1", DeviceID: "dev-1"}
	provider.events <- models.AuthEvent{Type: models.AuthEventTokenRefreshed, UserID: "u1", DeviceID: "dev-1"}
	provider.events <- models.AuthEvent{Type: models.AuthEventSignedOut, UserID: "u1", DeviceID: "dev-1"}

	waitForStatus(t, m, models.AuthStatusUnauthenticated)
	if m.CurrentUser() != nil {
		t.Fatal("sign-out must clear the current user even after a refresh")
	}
}

func TestEventsBufferedBeforeInitialize(t *testing.T) {
	provider := newFakeProvider()
	provider.usersByID["u1"] = &models.User{ID: "u1", Metadata: models.UserMetadata{FullName: "Ana"}}

	m := newTestManager(provider, newFakeClients())
	defer m.Close()

	// Published before Initialize; must not be lost.
	provider.events <- models.AuthEvent{Type: models.AuthEventSignedIn, UserID: "u1", DeviceID: "dev-1"}

	m.Initialize(context.Background(), "")
	waitForStatus(t, m, models.AuthStatusAuthenticated)
}

func TestEventsForOtherDeviceIgnored(t *testing.T) {
	provider := newFakeProvider()
	provider.usersByID["u1"] = &models.User{ID: "u1"}

	m := newTestManager(provider, newFakeClients())
	defer m.Close()
	m.Initialize(context.Background(), "")

	provider.events <- models.AuthEvent{Type: models.AuthEventSignedIn, UserID: "u1", DeviceID: "dev-2"}

	time.Sleep(50 * time.Millisecond)
	if got := m.Status(); got != models.AuthStatusUnauthenticated {
		t.Fatalf("status = %v, events for another device must not apply", got)
	}
}

func TestCloseUnsubscribesOnce(t *testing.T) {
	provider := newFakeProvider()
	m := newTestManager(provider, newFakeClients())
	m.Initialize(context.Background(), "")

	m.Close()
	m.Close()

	provider.mu.Lock()
	defer provider.mu.Unlock()
	if provider.unsubscribed != 1 {
		t.Fatalf("unsubscribed %d times, want exactly 1", provider.unsubscribed)
	}
}
