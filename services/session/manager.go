package session

import (
	"context"
	"sync"

	clientRepo "trimly/database/repository/client"
	"trimly/models"
	"trimly/services/auth"

	"go.uber.org/zap"
)

// Manager owns the client-visible authentication state for one device
// session: the tri-state logged-in flag and the merged current user. It is
// the single writer of that state; every other component reads it or calls
// its operations.
type Manager struct {
	deviceID string
	provider auth.Provider
	clients  clientRepo.ClientRepository
	logger   *zap.Logger

	mu      sync.RWMutex
	status  models.AuthStatus
	current *models.Account
	token   string

	subID  int
	events <-chan models.AuthEvent
	done   chan struct{}

	initOnce  sync.Once
	closeOnce sync.Once
}

// NewManager creates a manager for the given device and subscribes it to
// the provider's event stream. The subscription buffers events that arrive
// before Initialize resolves; consumption starts only afterwards, so early
// events are applied in order rather than racing the initial check.
func NewManager(deviceID string, provider auth.Provider, clients clientRepo.ClientRepository, logger *zap.Logger) *Manager {
	subID, events := provider.Subscribe()
	return &Manager{
		deviceID: deviceID,
		provider: provider,
		clients:  clients,
		logger:   logger,
		status:   models.AuthStatusUnknown,
		subID:    subID,
		events:   events,
		done:     make(chan struct{}),
	}
}

// Initialize resolves the session exactly once. A presented token that
// checks out resolves AUTHENTICATED with the merged user; anything else,
// including a backend failure, resolves UNAUTHENTICATED rather than leaving
// the state unresolved. Returns the resolved status.
func (m *Manager) Initialize(ctx context.Context, token string) models.AuthStatus {
	m.initOnce.Do(func() {
		if token != "" {
			user, err := m.provider.GetUserByToken(ctx, token)
			if err == nil && user != nil {
				m.setAuthenticated(ctx, user, token)
			} else {
				if err != nil {
					m.logger.Warn("session check failed", zap.Error(err))
				}
				m.setUnauthenticated()
			}
		} else {
			m.setUnauthenticated()
		}

		go m.consume()
	})

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// consume applies backend auth notifications strictly in arrival order.
// One goroutine per manager is the serialization guarantee: a handler
// completes before the next event is looked at.
func (m *Manager) consume() {
	for {
		select {
		case ev, ok := <-m.events:
			if !ok {
				return
			}
			if ev.DeviceID != m.deviceID {
				continue
			}
			m.apply(ev)
		case <-m.done:
			return
		}
	}
}

func (m *Manager) apply(ev models.AuthEvent) {
	switch ev.Type {
	case models.AuthEventSignedIn, models.AuthEventTokenRefreshed:
		m.refreshUser(context.Background(), ev.UserID)
	case models.AuthEventSignedOut:
		m.setUnauthenticated()
	}
}

// refreshUser re-fetches and replaces the current user from both sources.
// A failed fetch keeps the previous snapshot; a stale name is never kept
// when a fresher one was retrieved.
func (m *Manager) refreshUser(ctx context.Context, userID string) {
	user, err := m.provider.GetUserByID(ctx, userID)
	if err != nil || user == nil {
		m.logger.Warn("failed to refresh user after auth event",
			zap.String("userID", userID), zap.Error(err))
		return
	}

	profile, err := m.clients.GetByID(user.ID)
	if err != nil {
		m.logger.Warn("failed to fetch client profile", zap.String("userID", user.ID), zap.Error(err))
	}

	m.mu.Lock()
	m.status = models.AuthStatusAuthenticated
	m.current = mergeAccount(user, profile)
	m.mu.Unlock()
}

func (m *Manager) setAuthenticated(ctx context.Context, user *models.User, token string) {
	profile, err := m.clients.GetByID(user.ID)
	if err != nil {
		m.logger.Warn("failed to fetch client profile", zap.String("userID", user.ID), zap.Error(err))
	}

	m.mu.Lock()
	m.status = models.AuthStatusAuthenticated
	m.current = mergeAccount(user, profile)
	m.token = token
	m.mu.Unlock()
}

func (m *Manager) setUnauthenticated() {
	m.mu.Lock()
	m.status = models.AuthStatusUnauthenticated
	m.current = nil
	m.token = ""
	m.mu.Unlock()
}

// Close detaches the event subscription and stops the consume loop. Safe to
// call more than once; the release happens exactly once.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		m.provider.Unsubscribe(m.subID)
		close(m.done)
	})
}

// Status returns the current tri-state session flag.
func (m *Manager) Status() models.AuthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// CurrentUser returns a copy of the merged user, or nil when logged out.
func (m *Manager) CurrentUser() *models.Account {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil
	}
	account := *m.current
	return &account
}

// Token returns the active session token, empty when logged out.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// DeviceID returns the device this manager is scoped to.
func (m *Manager) DeviceID() string {
	return m.deviceID
}
