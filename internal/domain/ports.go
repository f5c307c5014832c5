package domain

import "context"

// UserRepository persists users. Implementations return copies, never
// references into their own storage.
type UserRepository interface {
	// FindByID returns (nil, nil) when no user has the id.
	FindByID(ctx context.Context, id UserID) (*User, error)
	// FindByEmail returns the first match, or (nil, nil) when there is none.
	FindByEmail(ctx context.Context, email Email) (*User, error)
	// Save inserts or overwrites the record with user.ID.
	Save(ctx context.Context, user User) error
	// Delete is idempotent. Deleting an absent id is not an error.
	Delete(ctx context.Context, id UserID) error
	// List returns an unordered snapshot.
	List(ctx context.Context) ([]User, error)
}

// EmailService delivers notifications.
type EmailService interface {
	Send(ctx context.Context, to Email, subject, body string) error
	SendHTML(ctx context.Context, to Email, subject, htmlBody string) error
}

// ConfigLoader loads the application configuration from a directory.
type ConfigLoader interface {
	Load(dir string) (AppConfig, error)
}
