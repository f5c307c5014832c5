package email

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/abdidvp/hexagonal/internal/domain"
)

// Console implements domain.EmailService by printing each message to a writer.
type Console struct {
	mu   sync.Mutex
	w    io.Writer
	from string
}

// NewConsole writes messages to w. Messages from concurrent senders are never
// interleaved.
func NewConsole(w io.Writer, from string) *Console {
	return &Console{w: w, from: from}
}

func (c *Console) Send(ctx context.Context, to domain.Email, subject, body string) error {
	return c.write(ctx, "EMAIL", "Body", to, subject, body)
}

func (c *Console) SendHTML(ctx context.Context, to domain.Email, subject, htmlBody string) error {
	return c.write(ctx, "HTML EMAIL", "HTML Body", to, subject, htmlBody)
}

func (c *Console) write(ctx context.Context, title, bodyLabel string, to domain.Email, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	header := fmt.Sprintf("========== %s ==========", title)

	var b strings.Builder
	b.WriteString(header + "\n")
	if c.from != "" {
		fmt.Fprintf(&b, "From: %s\n", c.from)
	}
	fmt.Fprintf(&b, "To: %s\n", to)
	fmt.Fprintf(&b, "Subject: %s\n", subject)
	fmt.Fprintf(&b, "%s:\n%s\n", bodyLabel, body)
	b.WriteString(strings.Repeat("=", len(header)) + "\n")

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := io.WriteString(c.w, b.String()); err != nil {
		return fmt.Errorf("writing email: %w", err)
	}
	return nil
}

// Noop discards every message.
type Noop struct{}

func NewNoop() Noop { return Noop{} }

func (Noop) Send(context.Context, domain.Email, string, string) error { return nil }

func (Noop) SendHTML(context.Context, domain.Email, string, string) error { return nil }
