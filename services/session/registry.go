package session

import (
	"sync"

	clientRepo "trimly/database/repository/client"
	"trimly/services/auth"

	"go.uber.org/zap"
)

// Registry tracks one Manager per active device session so a single server
// process can host many clients. Managers are created lazily and torn down
// on logout or server shutdown.
type Registry struct {
	provider auth.Provider
	clients  clientRepo.ClientRepository
	logger   *zap.Logger

	mu       sync.Mutex
	managers map[string]*Manager
}

// NewRegistry creates an empty registry.
func NewRegistry(provider auth.Provider, clients clientRepo.ClientRepository, logger *zap.Logger) *Registry {
	return &Registry{
		provider: provider,
		clients:  clients,
		logger:   logger,
		managers: make(map[string]*Manager),
	}
}

// GetOrCreate returns the manager for the device, creating it on first use.
func (r *Registry) GetOrCreate(deviceID string) *Manager {
	r.mu.Lock()
	defer r.mu.Unlock()

	if mgr, ok := r.managers[deviceID]; ok {
		return mgr
	}
	mgr := NewManager(deviceID, r.provider, r.clients, r.logger)
	r.managers[deviceID] = mgr
	return mgr
}

// Remove closes and forgets the manager for the device, if any.
func (r *Registry) Remove(deviceID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if mgr, ok := r.managers[deviceID]; ok {
		mgr.Close()
		delete(r.managers, deviceID)
	}
}

// Close tears down every tracked manager.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, mgr := range r.managers {
		mgr.Close()
		delete(r.managers, id)
	}
}
