package progression

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"

	"github.com/liftcycle/liftcycle/internal/calendar"
	"github.com/liftcycle/liftcycle/internal/sqlite"
)

// Config carries the tunables the service needs beyond its storage.
type Config struct {
	// TransitionHour is the local hour before which a timestamp still counts
	// as the previous calendar day. Valid range is 0 to 23.
	TransitionHour int
	// Now is the clock. Defaults to time.Now; tests inject a fixed clock.
	Now func() time.Time
}

// Service exposes plan, cycle, and workout operations backed by SQLite.
type Service struct {
	repo           *repository
	logger         *slog.Logger
	markdown       goldmark.Markdown
	transitionHour int
	now            func() time.Time
}

func NewService(db *sqlite.Database, logger *slog.Logger, cfg Config) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo:           newRepository(db, logger),
		logger:         logger,
		markdown:       goldmark.New(),
		transitionHour: cfg.TransitionHour,
		now:            now,
	}
}

// Today resolves the current calendar day, honoring the transition hour.
func (s *Service) Today() calendar.Date {
	return calendar.Normalize(s.now(), s.transitionHour)
}

func (s *Service) CreatePlan(ctx context.Context, plan Plan) (Plan, error) {
	if plan.Name == "" {
		return Plan{}, fmt.Errorf("plan name must not be empty")
	}
	normalizePlan(&plan)
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = s.now()
	}
	if err := s.repo.plans.Create(ctx, plan); err != nil {
		return Plan{}, fmt.Errorf("create plan: %w", err)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "plan created",
		slog.String("plan_id", plan.ID.String()),
		slog.String("name", plan.Name))
	return plan, nil
}

func (s *Service) GetPlan(ctx context.Context, id uuid.UUID) (Plan, error) {
	return s.repo.plans.Get(ctx, id)
}

func (s *Service) ListPlans(ctx context.Context) ([]Plan, error) {
	return s.repo.plans.List(ctx)
}

func (s *Service) UpdatePlan(ctx context.Context, id uuid.UUID, updateFn func(plan *Plan) (bool, error)) error {
	return s.repo.plans.Update(ctx, id, updateFn)
}

// DeletePlan removes a plan. Cycle items referencing it are left in place and
// skipped by progression until the cycle is edited.
func (s *Service) DeletePlan(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.plans.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "plan deleted", slog.String("plan_id", id.String()))
	return nil
}

func (s *Service) CreateCycle(ctx context.Context, cycle Cycle) (Cycle, error) {
	if cycle.Name == "" {
		return Cycle{}, fmt.Errorf("cycle name must not be empty")
	}
	normalizeCycle(&cycle)
	cycle.Active = false
	if err := s.repo.cycles.Create(ctx, cycle); err != nil {
		return Cycle{}, fmt.Errorf("create cycle: %w", err)
	}
	return cycle, nil
}

func (s *Service) GetCycle(ctx context.Context, id uuid.UUID) (Cycle, error) {
	return s.repo.cycles.Get(ctx, id)
}

func (s *Service) ListCycles(ctx context.Context) ([]Cycle, error) {
	return s.repo.cycles.List(ctx)
}

// SetActiveCycle activates the given cycle and deactivates every other cycle
// in the same transaction, so at most one cycle is ever active.
func (s *Service) SetActiveCycle(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.cycles.SetActive(ctx, id); err != nil {
		return fmt.Errorf("set active cycle: %w", err)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "cycle activated", slog.String("cycle_id", id.String()))
	return nil
}

// ActiveCycle returns the active cycle, or ErrNotFound when none is active.
func (s *Service) ActiveCycle(ctx context.Context) (Cycle, error) {
	return s.repo.cycles.Active(ctx)
}

func (s *Service) DeleteCycle(ctx context.Context, id uuid.UUID) error {
	return s.repo.cycles.Delete(ctx, id)
}

func (s *Service) ListExercises(ctx context.Context) ([]Exercise, error) {
	return s.repo.exercises.List(ctx)
}

func (s *Service) GetExercise(ctx context.Context, id int64) (Exercise, error) {
	return s.repo.exercises.Get(ctx, id)
}

func (s *Service) CreateExercise(ctx context.Context, ex Exercise) (Exercise, error) {
	if ex.Name == "" {
		return Exercise{}, fmt.Errorf("exercise name must not be empty")
	}
	return s.repo.exercises.Create(ctx, ex)
}

// ExerciseInfoHTML renders the exercise's markdown description to HTML.
func (s *Service) ExerciseInfoHTML(ctx context.Context, id int64) (string, error) {
	ex, err := s.repo.exercises.Get(ctx, id)
	if err != nil {
		return "", fmt.Errorf("get exercise: %w", err)
	}
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(ex.DescriptionMarkdown), &buf); err != nil {
		return "", fmt.Errorf("render exercise description: %w", err)
	}
	return buf.String(), nil
}
