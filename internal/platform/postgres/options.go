package postgres

import (
	"context"
	"time"
)

// DefaultNearbyFunction is the store-side nearby search function installed
// by the migrations.
const DefaultNearbyFunction = "get_nearby_facilities"

type storeOptions struct {
	queryTimeout   time.Duration
	nearbyFunction string
}

// StoreOption configures a PostgreSQL store.
type StoreOption func(*storeOptions)

// WithQueryTimeout bounds every query a store issues. Zero disables the bound.
func WithQueryTimeout(d time.Duration) StoreOption {
	return func(o *storeOptions) { o.queryTimeout = d }
}

// WithNearbyFunction overrides the name of the nearby search function.
func WithNearbyFunction(name string) StoreOption {
	return func(o *storeOptions) {
		if name != "" {
			o.nearbyFunction = name
		}
	}
}

func newStoreOptions(opts []StoreOption) storeOptions {
	o := storeOptions{nearbyFunction: DefaultNearbyFunction}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// queryContext derives the context a single query runs under.
func (o storeOptions) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, o.queryTimeout)
}
