package netlink

import "context"

// Link is the connectivity port: association with the network and a cheap,
// non-blocking liveness check.
type Link interface {
	// Connect starts (or restarts) association. It may return before the
	// link is up; callers poll Connected.
	Connect(ctx context.Context)
	// Connected reports the last observed link state.
	Connected() bool
}

// Static is a Link with a fixed state, for hosts whose connectivity is
// managed elsewhere.
type Static bool

func (s Static) Connect(context.Context) {}
func (s Static) Connected() bool         { return bool(s) }
