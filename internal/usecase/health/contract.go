package health

import "context"

// DBPinger reports whether the stack store is reachable.
type DBPinger interface {
	Ping(ctx context.Context) error
}
