package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/tasklist/internal/client/guard"
	"github.com/dmitrijs2005/tasklist/internal/client/models"
	"github.com/muesli/termenv"
)

// Shell draws the frame around every page: header, loading placeholder and
// inline banners.
type Shell struct {
	w io.Writer

	title   lipgloss.Style
	marker  lipgloss.Style
	muted   lipgloss.Style
	banner  lipgloss.Style
	success lipgloss.Style
}

// NewShell renders to w. The color profile is detected from w unless opts
// pin one (tests use termenv.WithProfile(termenv.Ascii)).
func NewShell(w io.Writer, opts ...termenv.OutputOption) *Shell {
	r := lipgloss.NewRenderer(w, opts...)
	return &Shell{
		w:       w,
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		marker:  r.NewStyle().Foreground(lipgloss.Color("10")),
		muted:   r.NewStyle().Faint(true),
		banner:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		success: r.NewStyle().Foreground(lipgloss.Color("10")),
	}
}

// Pending is the placeholder shown while the guard has not answered.
func (s *Shell) Pending(title string) {
	fmt.Fprintln(s.w, s.muted.Render(fmt.Sprintf("%s ... checking session (authenticated=%s)", title, guard.Unknown)))
}

// Header opens a page. A signed-in caller gets a marker and the logout hint.
func (s *Shell) Header(title string, state guard.State, p *models.Profile) {
	line := s.title.Render("== " + title + " ==")
	if state == guard.Authenticated && p != nil {
		line += "  " + s.marker.Render("signed in as "+p.Username) +
			"  " + s.muted.Render("(type 'logout' to sign out)")
	}
	fmt.Fprintln(s.w, line)
}

func (s *Shell) Error(msg string) {
	fmt.Fprintln(s.w, s.banner.Render("! "+msg))
}

func (s *Shell) Success(msg string) {
	fmt.Fprintln(s.w, s.success.Render(msg))
}

func (s *Shell) Hint(msg string) {
	fmt.Fprintln(s.w, s.muted.Render(msg))
}

func (s *Shell) Println(a ...any) {
	fmt.Fprintln(s.w, a...)
}

func (s *Shell) Printf(format string, a ...any) {
	fmt.Fprintf(s.w, format, a...)
}
