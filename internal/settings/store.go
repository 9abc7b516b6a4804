// Package settings stores event-level display configuration, currently the
// event title shown above the tally.
package settings

import (
	"context"

	"github.com/YoungStar1994/VibeVote-Live/internal/domain"
)

// Store persists event settings. Get never fails on absence: a store with
// nothing written yet returns the defaults.
type Store interface {
	Get(ctx context.Context) (domain.Settings, error)
	Set(ctx context.Context, s domain.Settings) error
}
