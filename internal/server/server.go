package server

import (
	"context"
	"log/slog"

	"github.com/groblegark/fieldgrid/internal/eav"
	"github.com/groblegark/fieldgrid/internal/events"
	"github.com/groblegark/fieldgrid/internal/generic"
	"github.com/groblegark/fieldgrid/internal/store"
)

// Server holds the service layer: the dynamic-grid planner, the generic
// entity engine, and the schema and value operations built directly on the
// store.
type Server struct {
	store     store.Store
	planner   *eav.Planner
	engine    *generic.Engine
	publisher events.Publisher
	logger    *slog.Logger
}

// NewServer returns a new Server backed by the given store and publisher.
func NewServer(s store.Store, p events.Publisher, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		store:     s,
		planner:   eav.NewPlanner(s, logger),
		engine:    generic.NewEngine(s, generic.DefaultRegistry(), logger),
		publisher: p,
		logger:    logger,
	}
}

// publish emits an event best-effort; failures are logged, never returned.
func (s *Server) publish(ctx context.Context, topic string, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		s.logger.Warn("failed to publish event", "topic", topic, "error", err)
	}
}
