package application

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/abdidvp/hexagonal/internal/domain"
)

const (
	welcomeSubject = "Welcome!"
	welcomeBody    = "Thank you for registering with us."

	tracerName = "github.com/abdidvp/hexagonal/internal/application"
)

// UserService orchestrates the repository and email ports. It owns the rule
// that no two users share an email.
type UserService struct {
	repo     domain.UserRepository
	mailer   domain.EmailService
	logger   *slog.Logger
	tracer   trace.Tracer
	notifier *Dispatcher
	locks    *keyLock
}

// NewUserService wires the service. A nil logger discards output and a nil
// tracer provider disables tracing.
func NewUserService(
	repo domain.UserRepository,
	mailer domain.EmailService,
	logger *slog.Logger,
	tp trace.TracerProvider,
) *UserService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if tp == nil {
		tp = noop.NewTracerProvider()
	}
	return &UserService{
		repo:     repo,
		mailer:   mailer,
		logger:   logger,
		tracer:   tp.Tracer(tracerName),
		notifier: NewDispatcher(logger, DefaultNotifyTimeout),
		locks:    newKeyLock(),
	}
}

// Register validates the email, rejects duplicates and persists a new user.
// The welcome email is sent in the background; its outcome never affects
// the result.
func (s *UserService) Register(ctx context.Context, rawEmail, name string) (_ domain.User, err error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Register")
	defer func() { endSpan(span, err) }()

	email, err := domain.NewEmail(rawEmail)
	if err != nil {
		return domain.User{}, err
	}

	unlock := s.locks.Lock(emailKey(email))
	defer unlock()

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return domain.User{}, infra("looking up email", err)
	}
	if existing != nil {
		return domain.User{}, domain.Conflict("email %s is already registered", email)
	}

	user := domain.NewUser(email, name)
	if err := s.repo.Save(ctx, user); err != nil {
		return domain.User{}, infra("saving user", err)
	}
	span.SetAttributes(attribute.String("user.id", user.ID.String()))
	s.logger.InfoContext(ctx, "user registered", slog.String("user_id", user.ID.String()))

	to := user.Email
	s.notifier.Go(ctx, "welcome_email", func(ctx context.Context) error {
		return s.mailer.Send(ctx, to, welcomeSubject, welcomeBody)
	}, slog.String("email", to.String()))

	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id domain.UserID) (_ domain.User, err error) {
	ctx, span := s.tracer.Start(ctx, "UserService.GetByID",
		trace.WithAttributes(attribute.String("user.id", id.String())))
	defer func() { endSpan(span, err) }()

	return s.load(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, rawEmail string) (_ domain.User, err error) {
	ctx, span := s.tracer.Start(ctx, "UserService.GetByEmail")
	defer func() { endSpan(span, err) }()

	email, err := domain.NewEmail(rawEmail)
	if err != nil {
		return domain.User{}, err
	}
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return domain.User{}, infra("looking up email", err)
	}
	if user == nil {
		return domain.User{}, domain.NotFound("user", email.String())
	}
	return *user, nil
}

// UpdateName loads, renames and saves the user.
func (s *UserService) UpdateName(ctx context.Context, id domain.UserID, name string) (_ domain.User, err error) {
	ctx, span := s.tracer.Start(ctx, "UserService.UpdateName",
		trace.WithAttributes(attribute.String("user.id", id.String())))
	defer func() { endSpan(span, err) }()

	unlock := s.locks.Lock(idKey(id))
	defer unlock()

	user, err := s.load(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	user.UpdateName(name)
	if err := s.repo.Save(ctx, user); err != nil {
		return domain.User{}, infra("saving user", err)
	}
	return user, nil
}

// UpdateEmail moves the user to a new address. The address must not belong
// to another user.
func (s *UserService) UpdateEmail(ctx context.Context, id domain.UserID, rawEmail string) (_ domain.User, err error) {
	ctx, span := s.tracer.Start(ctx, "UserService.UpdateEmail",
		trace.WithAttributes(attribute.String("user.id", id.String())))
	defer func() { endSpan(span, err) }()

	email, err := domain.NewEmail(rawEmail)
	if err != nil {
		return domain.User{}, err
	}

	// id before email; Register only ever takes the email key.
	unlockID := s.locks.Lock(idKey(id))
	defer unlockID()
	unlockEmail := s.locks.Lock(emailKey(email))
	defer unlockEmail()

	user, err := s.load(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	owner, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return domain.User{}, infra("looking up email", err)
	}
	if owner != nil && owner.ID != id {
		return domain.User{}, domain.Conflict("email %s is already registered", email)
	}

	user.UpdateEmail(email)
	if err := s.repo.Save(ctx, user); err != nil {
		return domain.User{}, infra("saving user", err)
	}
	return user, nil
}

// Delete removes the user, failing with NotFound if it does not exist.
func (s *UserService) Delete(ctx context.Context, id domain.UserID) (err error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Delete",
		trace.WithAttributes(attribute.String("user.id", id.String())))
	defer func() { endSpan(span, err) }()

	unlock := s.locks.Lock(idKey(id))
	defer unlock()

	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return infra("deleting user", err)
	}
	s.logger.InfoContext(ctx, "user deleted", slog.String("user_id", id.String()))
	return nil
}

func (s *UserService) List(ctx context.Context) (_ []domain.User, err error) {
	ctx, span := s.tracer.Start(ctx, "UserService.List")
	defer func() { endSpan(span, err) }()

	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, infra("listing users", err)
	}
	span.SetAttributes(attribute.Int("users.count", len(users)))
	return users, nil
}

// Shutdown waits for pending notifications.
func (s *UserService) Shutdown(ctx context.Context) error {
	return s.notifier.Wait(ctx)
}

func (s *UserService) load(ctx context.Context, id domain.UserID) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, infra("looking up user", err)
	}
	if user == nil {
		return domain.User{}, domain.NotFound("user", id.String())
	}
	return *user, nil
}

// infra passes domain errors through and wraps anything else.
func infra(msg string, err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	return domain.Infrastructure(msg, err)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func emailKey(e domain.Email) string { return "email:" + e.String() }

func idKey(id domain.UserID) string { return "id:" + id.String() }
