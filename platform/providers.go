// providers.go - Service provider registration (admin-only).
package platform

import (
	"context"
	"strings"

	"github.com/Kintaraa/kentaraa/tokens"
)

// RegisterProvider records a new service provider. Only identities on the
// admin allow-list may call this. Provider ids come from the provider
// sequence, never from the provider's own identity.
func (r *Registry) RegisterProvider(_ context.Context, caller tokens.Identity, identity tokens.Identity, name string, serviceType ServiceType) (uint64, error) {
	if !r.IsAdmin(caller) {
		return 0, ErrNotAuthorized
	}
	if strings.TrimSpace(name) == "" {
		return 0, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if !serviceType.Valid() {
		return 0, &ValidationError{Field: "service_type", Reason: "unknown service type"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.providerSeq.Next()
	r.providers[id] = Provider{
		ID:          id,
		Identity:    identity,
		Name:        name,
		ServiceType: serviceType,
		AddedAt:     r.now(),
	}
	return id, nil
}

// Providers returns all registered providers in id order.
func (r *Registry) Providers(_ context.Context) []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []Provider{}
	for id := uint64(0); id < uint64(len(r.providers)); id++ {
		if p, ok := r.providers[id]; ok {
			result = append(result, p)
		}
	}
	return result
}
