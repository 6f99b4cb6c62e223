package client

import "userdesk/internal/entity"

// Outcome tells whether a mutation reached the canonical store.
type Outcome string

const (
	OutcomeRemoteCommitted Outcome = "remote_committed"
	OutcomeLocalFallback   Outcome = "local_fallback"
)

const localOnlySuffix = " (local only)"

// MutationResult is returned by every cache mutation. A local fallback result
// carries the remote failure that triggered it; the change lives only in this
// cache and is lost on reload.
type MutationResult struct {
	Outcome   Outcome
	User      *entity.User
	ID        int64
	Message   string
	RemoteErr error
}

// LocalOnly reports whether the mutation was applied only to the cache.
func (r *MutationResult) LocalOnly() bool {
	return r != nil && r.Outcome == OutcomeLocalFallback
}
