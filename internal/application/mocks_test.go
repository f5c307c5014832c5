package application_test

import (
	"bytes"
	"context"
	"sync"

	"github.com/abdidvp/hexagonal/internal/domain"
)

type mockRepository struct {
	findByIDFn    func(ctx context.Context, id domain.UserID) (*domain.User, error)
	findByEmailFn func(ctx context.Context, email domain.Email) (*domain.User, error)
	saveFn        func(ctx context.Context, user domain.User) error
	deleteFn      func(ctx context.Context, id domain.UserID) error
	listFn        func(ctx context.Context) ([]domain.User, error)
}

func (m *mockRepository) FindByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockRepository) FindByEmail(ctx context.Context, email domain.Email) (*domain.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockRepository) Save(ctx context.Context, user domain.User) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, user)
	}
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id domain.UserID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockRepository) List(ctx context.Context) ([]domain.User, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

type mockMailer struct {
	sendFn func(ctx context.Context, to domain.Email, subject, body string) error
}

func (m *mockMailer) Send(ctx context.Context, to domain.Email, subject, body string) error {
	if m.sendFn != nil {
		return m.sendFn(ctx, to, subject, body)
	}
	return nil
}

func (m *mockMailer) SendHTML(ctx context.Context, to domain.Email, subject, htmlBody string) error {
	return m.Send(ctx, to, subject, htmlBody)
}

// syncBuffer lets background goroutines log into a test buffer.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
