package uow

import "context"

type unitKey struct{}

// ContextWithUnitOfWork binds the unit to the context so handlers invoked
// under the transaction middleware join its transaction instead of
// opening their own.
func ContextWithUnitOfWork(ctx context.Context, unit UnitOfWork) context.Context {
	return context.WithValue(ctx, unitKey{}, unit)
}

// FromContext reports the bound unit of work, if any. Handlers fall back
// to their factory when none is present.
func FromContext(ctx context.Context) (UnitOfWork, bool) {
	unit, ok := ctx.Value(unitKey{}).(UnitOfWork)
	return unit, ok
}
