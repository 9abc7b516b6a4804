package settings

import (
	"context"
	"log/slog"
	"strings"

	"github.com/YoungStar1994/VibeVote-Live/internal/broadcast"
	"github.com/YoungStar1994/VibeVote-Live/internal/domain"
	domainerrors "github.com/YoungStar1994/VibeVote-Live/pkg/domain-errors"
)

// Broadcaster fans an event out to every connected session.
type Broadcaster interface {
	Broadcast(ev broadcast.Event)
}

// Service reads and updates event settings and announces changes to
// connected sessions.
type Service struct {
	store  Store
	hub    Broadcaster
	logger *slog.Logger
}

func NewService(store Store, hub Broadcaster, logger *slog.Logger) *Service {
	return &Service{store: store, hub: hub, logger: logger}
}

func (s *Service) Get(ctx context.Context) (domain.Settings, error) {
	current, err := s.store.Get(ctx)
	if err != nil {
		return domain.Settings{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "read settings")
	}
	return current, nil
}

// Update persists the new settings and pushes them to every session so
// projector views re-title themselves without a reload.
func (s *Service) Update(ctx context.Context, settings domain.Settings) (domain.Settings, error) {
	settings.EventTitle = strings.TrimSpace(settings.EventTitle)
	if settings.EventTitle == "" {
		return domain.Settings{}, domainerrors.New(domainerrors.CodeInvalidRequest, "event_title is required")
	}

	if err := s.store.Set(ctx, settings); err != nil {
		return domain.Settings{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "write settings")
	}

	s.logger.InfoContext(ctx, "settings updated", "event_title", settings.EventTitle)
	s.hub.Broadcast(broadcast.Event{Event: broadcast.EventSettingsUpdate, Data: settings})
	return settings, nil
}
