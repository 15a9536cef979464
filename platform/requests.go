// requests.go - Service request submission and queries.
package platform

import (
	"context"
	"strings"

	"github.com/Kintaraa/kentaraa/tokens"
)

// SubmitServiceRequest validates and commits a service request. Requests
// do not trigger rewards; only the creation events named by the reward
// schedule do.
func (r *Registry) SubmitServiceRequest(_ context.Context, requester tokens.Identity, serviceType ServiceType, description string, priority Priority) (uint64, error) {
	if !serviceType.Valid() {
		return 0, &ValidationError{Field: "service_type", Reason: "unknown service type"}
	}
	if strings.TrimSpace(description) == "" {
		return 0, &ValidationError{Field: "description", Reason: "must not be empty"}
	}
	if !priority.Valid() {
		return 0, &ValidationError{Field: "priority", Reason: "unknown priority"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.requestSeq.Next()
	r.requests[id] = ServiceRequest{
		ID:          id,
		Requester:   requester,
		ServiceType: serviceType,
		Description: description,
		Priority:    priority,
		Status:      RequestPending,
		SubmittedAt: r.now(),
	}
	r.requestsByUser[requester] = append(r.requestsByUser[requester], id)
	return id, nil
}

// GetServiceRequest returns the request with the given id.
func (r *Registry) GetServiceRequest(_ context.Context, id uint64) (ServiceRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.requests[id]
	if !ok {
		return ServiceRequest{}, tokens.ErrNotFound
	}
	return req, nil
}

// UserServiceRequests returns all requests by user, in creation order.
func (r *Registry) UserServiceRequests(_ context.Context, user tokens.Identity) []ServiceRequest {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []ServiceRequest{}
	for _, id := range r.requestsByUser[user] {
		result = append(result, r.requests[id])
	}
	return result
}

// UpdateRequestStatus overwrites the request's status. No transition
// guard: any status may replace any other.
func (r *Registry) UpdateRequestStatus(_ context.Context, id uint64, status RequestStatus) error {
	if !status.Valid() {
		return &ValidationError{Field: "status", Reason: "unknown request status"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.requests[id]
	if !ok {
		return tokens.ErrNotFound
	}
	req.Status = status
	r.requests[id] = req
	return nil
}
