package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/abdidvp/hexagonal/internal/domain"
)

const tracerName = "github.com/abdidvp/hexagonal/internal/adapters/outbound/telemetry"

// TracedRepository decorates a domain.UserRepository with one span per call.
type TracedRepository struct {
	next    domain.UserRepository
	tracer  trace.Tracer
	backend string
}

func NewTracedRepository(next domain.UserRepository, tp trace.TracerProvider, backend string) *TracedRepository {
	return &TracedRepository{next: next, tracer: tp.Tracer(tracerName), backend: backend}
}

func (r *TracedRepository) FindByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	ctx, span := r.start(ctx, "UserRepository.FindByID", attribute.String("user.id", id.String()))
	u, err := r.next.FindByID(ctx, id)
	span.SetAttributes(attribute.Bool("found", u != nil))
	end(span, err)
	return u, err
}

func (r *TracedRepository) FindByEmail(ctx context.Context, email domain.Email) (*domain.User, error) {
	ctx, span := r.start(ctx, "UserRepository.FindByEmail")
	u, err := r.next.FindByEmail(ctx, email)
	span.SetAttributes(attribute.Bool("found", u != nil))
	end(span, err)
	return u, err
}

func (r *TracedRepository) Save(ctx context.Context, user domain.User) error {
	ctx, span := r.start(ctx, "UserRepository.Save", attribute.String("user.id", user.ID.String()))
	err := r.next.Save(ctx, user)
	end(span, err)
	return err
}

func (r *TracedRepository) Delete(ctx context.Context, id domain.UserID) error {
	ctx, span := r.start(ctx, "UserRepository.Delete", attribute.String("user.id", id.String()))
	err := r.next.Delete(ctx, id)
	end(span, err)
	return err
}

func (r *TracedRepository) List(ctx context.Context) ([]domain.User, error) {
	ctx, span := r.start(ctx, "UserRepository.List")
	users, err := r.next.List(ctx)
	span.SetAttributes(attribute.Int("users.count", len(users)))
	end(span, err)
	return users, err
}

func (r *TracedRepository) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("db.system", r.backend))
	return r.tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindClient), trace.WithAttributes(attrs...))
}

func end(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
