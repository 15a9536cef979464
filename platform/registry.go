/*
registry.go - Domain state owner and reward coupling

PURPOSE:

	The Registry owns the report/request/appointment/provider collections,
	one id sequence per entity kind, and the admin allow-list. It is the
	only writer of domain state, constructed once at process start.

REWARD COUPLING:

	Mutating operations that trigger rewards follow one discipline:
	  1. Validate input (abort with no side effects on failure)
	  2. Commit the domain record under the registry lock
	  3. Release the lock, then dispatch the reward
	  4. Return the committed id plus the reward outcome
	Step 3 happens outside the lock: the window where the record exists but
	the reward transaction does not is visible, and that is the contract.
	A reward failure degrades the result to a partial success, never an
	error, and never rolls back the commit.

SEE ALSO:
  - reports.go, requests.go, appointments.go, providers.go: Operations
  - tokens/rewards.go: Dispatcher semantics
*/
package platform

import (
	"context"
	"sync"
	"time"

	"github.com/Kintaraa/kentaraa/tokens"
)

// Registry owns all domain entity state.
type Registry struct {
	mu sync.RWMutex

	reports      map[uint64]Report
	requests     map[uint64]ServiceRequest
	appointments map[uint64]Appointment
	providers    map[uint64]Provider

	// Per-user creation-order indexes.
	reportsByUser      map[tokens.Identity][]uint64
	requestsByUser     map[tokens.Identity][]uint64
	appointmentsByUser map[tokens.Identity][]uint64

	// One independent sequence per entity kind.
	reportSeq      *tokens.Sequence
	requestSeq     *tokens.Sequence
	appointmentSeq *tokens.Sequence
	providerSeq    *tokens.Sequence

	rewards *tokens.Dispatcher
	admins  map[tokens.Identity]bool

	now func() time.Time
}

// NewRegistry creates an empty registry. admins is the allow-list of
// identities permitted to call admin operations.
func NewRegistry(rewards *tokens.Dispatcher, admins []tokens.Identity) *Registry {
	allow := make(map[tokens.Identity]bool, len(admins))
	for _, a := range admins {
		allow[a] = true
	}
	return &Registry{
		reports:            make(map[uint64]Report),
		requests:           make(map[uint64]ServiceRequest),
		appointments:       make(map[uint64]Appointment),
		providers:          make(map[uint64]Provider),
		reportsByUser:      make(map[tokens.Identity][]uint64),
		requestsByUser:     make(map[tokens.Identity][]uint64),
		appointmentsByUser: make(map[tokens.Identity][]uint64),
		reportSeq:          tokens.NewSequence(),
		requestSeq:         tokens.NewSequence(),
		appointmentSeq:     tokens.NewSequence(),
		providerSeq:        tokens.NewSequence(),
		rewards:            rewards,
		admins:             allow,
		now:                time.Now,
	}
}

// IsAdmin reports whether id is on the admin allow-list.
func (r *Registry) IsAdmin(id tokens.Identity) bool {
	return r.admins[id]
}

// RegisterUser initializes the caller's token balance via the dispatcher.
// Registration follows the same partial-failure contract as other
// triggers: the outcome reports whether the grant landed.
func (r *Registry) RegisterUser(ctx context.Context, user tokens.Identity) tokens.Outcome {
	return r.rewards.Dispatch(ctx, user, tokens.RewardRegistration)
}
