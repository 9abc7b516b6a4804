// Package service implements the voting workflow: identity resolution,
// ledger mutation and fanout of the updated tally to connected sessions.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/YoungStar1994/VibeVote-Live/internal/broadcast"
	"github.com/YoungStar1994/VibeVote-Live/internal/domain"
	"github.com/YoungStar1994/VibeVote-Live/internal/identity"
	"github.com/YoungStar1994/VibeVote-Live/internal/ledger"
	"github.com/YoungStar1994/VibeVote-Live/internal/platform/metrics"
	domainerrors "github.com/YoungStar1994/VibeVote-Live/pkg/domain-errors"
	"github.com/YoungStar1994/VibeVote-Live/pkg/requestcontext"
	"github.com/YoungStar1994/VibeVote-Live/pkg/sentinel"
)

var tracer = otel.Tracer("vibevote/internal/vote")

// Broadcaster fans an event out to every connected session. The hub
// implements it; tests substitute a recorder.
type Broadcaster interface {
	Broadcast(ev broadcast.Event)
}

// Service coordinates a vote from raw request material to a broadcast
// tally. All ledger mutations go through the store's atomic operations;
// the service never inspects or caches tallies between calls.
type Service struct {
	store    ledger.Store
	resolver identity.Resolver
	hub      Broadcaster
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func New(store ledger.Store, resolver identity.Resolver, hub Broadcaster, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		resolver: resolver,
		hub:      hub,
		metrics:  m,
		logger:   logger,
	}
}

// Cast records one vote for the given program on behalf of the caller's
// resolved identity. On success the updated tally is broadcast to all
// sessions and returned. A second vote from the same identity, whether
// matched by composite key or by user token, fails with a duplicate error
// and leaves the ledger untouched.
func (s *Service) Cast(ctx context.Context, programID int64, userToken, fingerprint string) ([]domain.Program, error) {
	ctx, span := tracer.Start(ctx, "vote.Cast")
	defer span.End()
	span.SetAttributes(attribute.Int64("program.id", programID))

	if programID <= 0 {
		return nil, domainerrors.New(domainerrors.CodeInvalidRequest, "programId is required")
	}

	key, err := s.resolver.Resolve(userToken, fingerprint, requestcontext.ClientIP(ctx), requestcontext.UserAgent(ctx))
	if err != nil {
		return nil, err
	}

	tally, err := s.store.CastVote(ctx, programID, key, userToken)
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, sentinel.ErrDuplicate):
			s.metrics.VotesDuplicate.Inc()
			s.logger.InfoContext(ctx, "duplicate vote rejected", "program_id", programID)
			return nil, domainerrors.Wrap(err, domainerrors.CodeDuplicateVote, "this device has already voted")
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, domainerrors.Wrap(err, domainerrors.CodeNotFound, "program not found")
		default:
			return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "cast vote")
		}
	}

	s.metrics.VotesAccepted.Inc()
	s.logger.InfoContext(ctx, "vote accepted", "program_id", programID)
	s.hub.Broadcast(broadcast.Event{Event: broadcast.EventVoteUpdate, Data: tally})
	return tally, nil
}

// Revoke withdraws the caller's vote and decrements exactly the program it
// was cast for. The updated tally is broadcast and returned.
func (s *Service) Revoke(ctx context.Context, userToken, fingerprint string) ([]domain.Program, error) {
	ctx, span := tracer.Start(ctx, "vote.Revoke")
	defer span.End()

	key, err := s.resolver.Resolve(userToken, fingerprint, requestcontext.ClientIP(ctx), requestcontext.UserAgent(ctx))
	if err != nil {
		return nil, err
	}

	tally, err := s.store.RevokeVote(ctx, key, userToken)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, sentinel.ErrNoVote) {
			return nil, domainerrors.Wrap(err, domainerrors.CodeNoVoteFound, "no vote on record for this device")
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "revoke vote")
	}

	s.metrics.VotesRevoked.Inc()
	s.logger.InfoContext(ctx, "vote revoked")
	s.hub.Broadcast(broadcast.Event{Event: broadcast.EventVoteUpdate, Data: tally})
	return tally, nil
}

// Status reports whether the caller's identity has an active vote and, if
// so, for which program.
func (s *Service) Status(ctx context.Context, userToken, fingerprint string) (domain.VoteStatus, error) {
	ctx, span := tracer.Start(ctx, "vote.Status")
	defer span.End()

	key, err := s.resolver.Resolve(userToken, fingerprint, requestcontext.ClientIP(ctx), requestcontext.UserAgent(ctx))
	if err != nil {
		return domain.VoteStatus{}, err
	}

	status, err := s.store.Status(ctx, key, userToken)
	if err != nil {
		span.RecordError(err)
		return domain.VoteStatus{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "vote status")
	}
	return status, nil
}

// ResetAll zeroes every tally and deletes every vote record, then tells
// connected sessions to clear their local voted state. Identities that
// voted before the reset may vote again.
func (s *Service) ResetAll(ctx context.Context) ([]domain.Program, error) {
	ctx, span := tracer.Start(ctx, "vote.ResetAll")
	defer span.End()

	tally, err := s.store.ResetAll(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "reset votes")
	}

	s.metrics.Resets.Inc()
	s.logger.InfoContext(ctx, "all votes reset")
	s.hub.Broadcast(broadcast.Event{Event: broadcast.EventVoteUpdate, Data: tally})
	s.hub.Broadcast(broadcast.Event{Event: broadcast.EventResetVotedStatus})
	return tally, nil
}

// Tally returns the current standings, sorted by program ID. Used for the
// initial push to new sessions and the program listing endpoint.
func (s *Service) Tally(ctx context.Context) ([]domain.Program, error) {
	programs, err := s.store.ListPrograms(ctx)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "list programs")
	}
	return programs, nil
}
