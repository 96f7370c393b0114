package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/mrops-br/coder-ecommerce-api/internal/domain"
	"github.com/mrops-br/coder-ecommerce-api/internal/domain/query"
)

// Operation results recorded on the <entity>.operations counters.
const (
	resultSuccess  = "success"
	resultFailure  = "failure"
	resultNotFound = "not_found"
	resultInvalid  = "invalid"
)

// instrument bundles the tracer, logger and operations counter every
// service method reports to.
type instrument struct {
	tracer trace.Tracer
	logger *slog.Logger
	ops    metric.Int64Counter
}

func newInstrument(entity string, tracer trace.Tracer, meter metric.Meter, logger *slog.Logger) instrument {
	ops, _ := meter.Int64Counter(
		entity+".operations",
		metric.WithDescription("Total number of "+entity+" operations"),
	)
	return instrument{tracer: tracer, logger: logger, ops: ops}
}

func (in instrument) count(ctx context.Context, operation, result string) {
	in.ops.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", result),
		),
	)
}

func (in instrument) succeed(ctx context.Context, span trace.Span, operation, msg string, attrs ...slog.Attr) {
	in.count(ctx, operation, resultSuccess)
	in.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
	span.SetStatus(codes.Ok, msg)
}

// fail records err on the span, logs it at a level matching its class and
// counts the operation. It returns err unchanged.
func (in instrument) fail(ctx context.Context, span trace.Span, operation, msg string, err error, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)

	result := classify(err)
	level := slog.LevelError
	if result != resultFailure {
		level = slog.LevelWarn
	}
	in.logger.LogAttrs(ctx, level, msg, append(attrs, slog.String("error", err.Error()))...)
	in.count(ctx, operation, result)
	return err
}

func classify(err error) string {
	var (
		verr  *domain.ValidationError
		qerr  *query.Error
		dup   *domain.DuplicateKeyError
		stock *domain.InsufficientStockError
	)
	switch {
	case domain.IsNotFound(err):
		return resultNotFound
	case errors.As(err, &verr), errors.As(err, &qerr), errors.As(err, &dup),
		errors.As(err, &stock), errors.Is(err, domain.ErrInvalidID):
		return resultInvalid
	}
	return resultFailure
}
