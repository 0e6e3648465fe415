package shell

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"akairo/internal/logger"
)

var shellLog = logger.NewStyledLogger("Shell")

// Renderer styles what the shell prints. A plain renderer leaves text untouched.
type Renderer struct {
	plain    bool
	markdown *glamour.TermRenderer

	promptStyle lipgloss.Style
	errorStyle  lipgloss.Style
	warnStyle   lipgloss.Style
}

// NewRenderer creates a renderer. It falls back to plain output when plain is
// set or the terminal has no color support.
func NewRenderer(plain bool) *Renderer {
	r := &Renderer{
		plain:       plain || lipgloss.ColorProfile() == termenv.Ascii,
		promptStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		errorStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		warnStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
	if r.plain {
		return r
	}

	md, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		shellLog.Warn("Markdown rendering unavailable", "error", err)
		return r
	}
	r.markdown = md
	return r
}

// Plain reports whether r leaves text unstyled.
func (r *Renderer) Plain() bool {
	return r == nil || r.plain
}

// Prompt styles a question sent while collecting an argument.
func (r *Renderer) Prompt(text string) string {
	if r.Plain() {
		return text
	}
	return r.promptStyle.Render(text)
}

// Output returns command output. It is printed as is so aligned listings survive.
func (r *Renderer) Output(text string) string {
	return text
}

// Error formats err the way every failed command is reported.
func (r *Renderer) Error(err error) string {
	text := fmt.Sprintf("Error: %s", err)
	if r.Plain() {
		return text
	}
	return r.errorStyle.Render(text)
}

// Warn styles a notice that is not a failure.
func (r *Renderer) Warn(text string) string {
	if r.Plain() {
		return text
	}
	return r.warnStyle.Render(text)
}

// Hint renders a markdown hint, falling back to the raw text.
func (r *Renderer) Hint(markdown string) string {
	if r.Plain() || r.markdown == nil {
		return markdown
	}
	out, err := r.markdown.Render(markdown)
	if err != nil {
		shellLog.Debug("Failed to render hint", "error", err)
		return markdown
	}
	return strings.Trim(out, "\n")
}
