package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/abdidvp/hexagonal/internal/domain"
)

// ── warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
)

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 2)

	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	labelStyle    = lipgloss.NewStyle().Foreground(dim).Width(9)
	valueStyle    = lipgloss.NewStyle().Foreground(fg)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	separatorLine = lipgloss.NewStyle().Foreground(faint).Render(strings.Repeat("─", 64))
)

const timeLayout = time.RFC3339

// RenderUser draws a single user inside a rounded box.
func RenderUser(u domain.User) string {
	rows := []string{
		headerStyle.Render(u.Name),
		"",
		field("ID", u.ID.String()),
		field("Email", u.Email.String()),
		field("Created", u.CreatedAt.Format(timeLayout)),
		field("Updated", u.UpdatedAt.Format(timeLayout)),
	}
	return boxStyle.Render(strings.Join(rows, "\n")) + "\n"
}

// RenderUserList draws one line per user under a count header.
func RenderUserList(users []domain.User) string {
	var b strings.Builder

	b.WriteString("  ")
	b.WriteString(titleStyle.Render("Users"))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d total", len(users))))
	b.WriteString("\n  " + separatorLine + "\n")

	if len(users) == 0 {
		b.WriteString("  " + dimStyle.Render("No users found.") + "\n")
		return b.String()
	}

	for _, u := range users {
		fmt.Fprintf(&b, "  %s  %s  %s\n",
			dimStyle.Render(u.ID.String()),
			valueStyle.Render(padRight(u.Email.String(), 28)),
			titleStyle.Render(u.Name),
		)
	}
	return b.String()
}

// RenderDeleted confirms a deletion.
func RenderDeleted(id domain.UserID) string {
	return "  " + passStyle.Render("✓") + " deleted user " + dimStyle.Render(id.String()) + "\n"
}

// RenderError formats an error for terminal output.
func RenderError(err error) string {
	return "  " + errorTagStyle.Render("error") + "  " + err.Error() + "\n"
}

func field(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
