package domain

import (
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserID is an opaque random 128-bit identifier.
type UserID struct {
	value uuid.UUID
}

// NewUserID generates a fresh random id.
func NewUserID() UserID {
	return UserID{value: uuid.New()}
}

// ParseUserID parses the canonical textual form of an id.
func ParseUserID(s string) (UserID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UserID{}, Validation("invalid user id %q", s)
	}
	return UserID{value: id}, nil
}

func (id UserID) String() string { return id.value.String() }

func (id UserID) IsZero() bool { return id.value == uuid.Nil }

func (id UserID) MarshalText() ([]byte, error) {
	return []byte(id.value.String()), nil
}

func (id *UserID) UnmarshalText(text []byte) error {
	parsed, err := ParseUserID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Email is a validated, lowercased address.
type Email struct {
	value string
}

// NewEmail lowercases raw and validates it. Surrounding whitespace is not trimmed.
func NewEmail(raw string) (Email, error) {
	if raw == "" {
		return Email{}, Validation("email cannot be empty")
	}
	if strings.Count(raw, "@") != 1 {
		return Email{}, Validation("email must contain exactly one @")
	}
	local, host, _ := strings.Cut(raw, "@")
	if local == "" || host == "" {
		return Email{}, Validation("invalid email format")
	}
	if !strings.Contains(host, ".") {
		return Email{}, Validation("email domain must contain a dot")
	}
	return Email{value: strings.ToLower(raw)}, nil
}

func (e Email) String() string { return e.value }

func (e Email) IsZero() bool { return e.value == "" }

func (e Email) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.value)
}

func (e *Email) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := NewEmail(raw)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// User is the aggregate root. Mutate it only through the Update methods so
// UpdatedAt stays current.
type User struct {
	ID        UserID    `json:"id"`
	Email     Email     `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser creates a user with a fresh id. Both timestamps are set to now.
func NewUser(email Email, name string) User {
	now := time.Now().UTC()
	return User{
		ID:        NewUserID(),
		Email:     email,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (u *User) UpdateName(name string) {
	u.Name = name
	u.touch()
}

func (u *User) UpdateEmail(email Email) {
	u.Email = email
	u.touch()
}

// touch advances UpdatedAt strictly, even when the wall clock has not moved.
func (u *User) touch() {
	now := time.Now().UTC()
	if !now.After(u.UpdatedAt) {
		now = u.UpdatedAt.Add(time.Nanosecond)
	}
	u.UpdatedAt = now
}

// SortUsers orders users by creation time, then id.
func SortUsers(users []User) {
	slices.SortFunc(users, func(a, b User) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
}
