// Package service implements program roster management. Mutations are
// admin-only at the transport layer; the service broadcasts the refreshed
// tally after every change so audience views stay current.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/YoungStar1994/VibeVote-Live/internal/broadcast"
	"github.com/YoungStar1994/VibeVote-Live/internal/domain"
	"github.com/YoungStar1994/VibeVote-Live/internal/ledger"
	domainerrors "github.com/YoungStar1994/VibeVote-Live/pkg/domain-errors"
	"github.com/YoungStar1994/VibeVote-Live/pkg/sentinel"
)

// Broadcaster fans an event out to every connected session.
type Broadcaster interface {
	Broadcast(ev broadcast.Event)
}

// Service manages the program roster on top of the vote ledger.
type Service struct {
	store  ledger.Store
	hub    Broadcaster
	logger *slog.Logger
}

func New(store ledger.Store, hub Broadcaster, logger *slog.Logger) *Service {
	return &Service{store: store, hub: hub, logger: logger}
}

// List returns the full roster with current vote counts, ordered by ID.
func (s *Service) List(ctx context.Context) ([]domain.Program, error) {
	programs, err := s.store.ListPrograms(ctx)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "list programs")
	}
	return programs, nil
}

// Create adds a program with zero votes.
func (s *Service) Create(ctx context.Context, name, category string) (domain.Program, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Program{}, domainerrors.New(domainerrors.CodeInvalidRequest, "name is required")
	}

	program, err := s.store.CreateProgram(ctx, name, strings.TrimSpace(category))
	if err != nil {
		return domain.Program{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "create program")
	}

	s.logger.InfoContext(ctx, "program created", "program_id", program.ID, "name", program.Name)
	s.broadcastTally(ctx)
	return program, nil
}

// Update changes a program's name, category and, when votes is non-nil, its
// vote count. An explicit count overrides the tally without touching the
// vote log; negative counts are rejected.
func (s *Service) Update(ctx context.Context, id int64, name, category string, votes *int64) (domain.Program, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Program{}, domainerrors.New(domainerrors.CodeInvalidRequest, "name is required")
	}
	if votes != nil && *votes < 0 {
		return domain.Program{}, domainerrors.New(domainerrors.CodeInvalidRequest, "votes must not be negative")
	}

	program, err := s.store.UpdateProgram(ctx, id, name, strings.TrimSpace(category), votes)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return domain.Program{}, domainerrors.Wrap(err, domainerrors.CodeNotFound, "program not found")
		}
		return domain.Program{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "update program")
	}

	s.logger.InfoContext(ctx, "program updated", "program_id", program.ID)
	s.broadcastTally(ctx)
	return program, nil
}

// Delete removes a program together with its vote records.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteProgram(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return domainerrors.Wrap(err, domainerrors.CodeNotFound, "program not found")
		}
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "delete program")
	}

	s.logger.InfoContext(ctx, "program deleted", "program_id", id)
	s.broadcastTally(ctx)
	return nil
}

// broadcastTally pushes the post-mutation standings. A failed read here
// only skips the push; the mutation itself already committed.
func (s *Service) broadcastTally(ctx context.Context) {
	tally, err := s.store.ListPrograms(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "tally refresh for broadcast failed", "error", err)
		return
	}
	s.hub.Broadcast(broadcast.Event{Event: broadcast.EventVoteUpdate, Data: tally})
}
