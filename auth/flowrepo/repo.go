// Package flowrepo stores in-flight login state, keyed by the session that
// initiated the redirect. A FlowState lives only for the provider round trip.
package flowrepo

import "time"

// FlowState is the transient server-side half of an authorization request:
// the anti-forgery state token issued at login start, plus where to send the
// user afterwards.
type FlowState struct {
	State     string
	ReturnURL string
	CreatedAt time.Time
}

type Repo interface {
	Upsert(sessionID string, flow *FlowState) error
	Get(sessionID string) (*FlowState, error)
	Delete(sessionID string) error
}
