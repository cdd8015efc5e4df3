package booking

import (
	"context"
	"errors"

	"staybook/internal/app/uow"
)

var ErrUnitOfWorkRequired = errors.New("booking: unit of work required")

// unitScope tracks whether the handler owns the unit of work lifecycle or
// borrowed one opened by the transaction middleware.
type unitScope struct {
	unit      uow.UnitOfWork
	managed   bool
	committed bool
}

// openUnit reuses a unit of work already placed in context, or starts a
// managed one from the factory.
func openUnit(ctx context.Context, factory uow.UoWFactory) (uow.UnitOfWork, context.Context, *unitScope, error) {
	if unit, ok := uow.FromContext(ctx); ok {
		return unit, ctx, &unitScope{unit: unit}, nil
	}
	if factory == nil {
		return nil, ctx, nil, ErrUnitOfWorkRequired
	}
	unit, err := factory.Begin(ctx, uow.TxOptions{})
	if err != nil {
		return nil, ctx, nil, err
	}
	ctx = uow.ContextWithUnitOfWork(ctx, unit)
	return unit, ctx, &unitScope{unit: unit, managed: true}, nil
}

func openReadUnit(ctx context.Context, factory uow.UoWFactory) (uow.UnitOfWork, context.Context, *unitScope, error) {
	if unit, ok := uow.FromContext(ctx); ok {
		return unit, ctx, &unitScope{unit: unit}, nil
	}
	if factory == nil {
		return nil, ctx, nil, ErrUnitOfWorkRequired
	}
	unit, err := factory.Begin(ctx, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, ctx, nil, err
	}
	ctx = uow.ContextWithUnitOfWork(ctx, unit)
	return unit, ctx, &unitScope{unit: unit, managed: true}, nil
}

// Close rolls back a managed unit that was never committed. Safe to defer
// unconditionally.
func (s *unitScope) Close(ctx context.Context) {
	if s == nil || !s.managed || s.committed {
		return
	}
	_ = s.unit.Rollback(ctx)
}

// Commit commits managed units; borrowed units are committed by whoever
// opened them.
func (s *unitScope) Commit(ctx context.Context) error {
	if !s.managed {
		return nil
	}
	if err := s.unit.Commit(ctx); err != nil {
		return err
	}
	s.committed = true
	return nil
}

// Finish releases read-only managed units.
func (s *unitScope) Finish(ctx context.Context) {
	if s == nil || !s.managed || s.committed {
		return
	}
	_ = s.unit.Rollback(ctx)
	s.committed = true
}
