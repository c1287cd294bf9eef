package domain

import (
	"context"
	"time"

	m "gooze.dev/pkg/playground/internal/model"
)

// UnitTestsArgs configures a plain unit test run.
type UnitTestsArgs struct {
	Session m.Session     `validate:"-"`
	Timeout time.Duration `validate:"gte=0"`
}

// MutationTestsArgs configures a mutation testing session.
type MutationTestsArgs struct {
	Session       m.Session        `validate:"-"`
	Reports       m.Path           `validate:"required"`
	UseCache      bool
	Parallel      int              `validate:"gte=0,lte=256"`
	MaxAttempts   int              `validate:"gte=0"`
	Timeout       time.Duration    `validate:"gte=0"`
	MutationTypes []m.MutationType `validate:"dive,oneof=arithmetic comparison logical boolean unary branch statement block"`
	Filter        string
	SpillDir      string
}

// ViewArgs selects a saved report.
type ViewArgs struct {
	Reports   m.Path `validate:"required"`
	SessionID string `validate:"omitempty,uuid"`
}

// Workflow implements the playground actions.
type Workflow interface {
	// UnitTests compiles the unit and runs its tests once, without mutations.
	UnitTests(ctx context.Context, args UnitTestsArgs) (m.TestRunResult, error)
	// MutationTests compiles and tests the unit, mutates it, builds the
	// mutated unit with rollback, runs every mutant and saves the report.
	MutationTests(ctx context.Context, args MutationTestsArgs) (m.Report, error)
	// View displays a saved report.
	View(ctx context.Context, args ViewArgs) (m.Report, error)
}
