package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/autojoin/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/autojoin/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/autojoin/internal/core/domain"
)

type option struct {
	decision domain.Decision
	label    string
	detail   string
}

// promptModel asks which account to use for one meeting.
type promptModel struct {
	req     domain.DecisionRequest
	options []option
	cursor  int

	// chosen is empty until the user decides or cancels.
	chosen domain.Decision

	keys   *keymap.KeyMap
	help   help.Model
	styles *styles.Styles
}

func newPromptModel(req domain.DecisionRequest, s *styles.Styles) *promptModel {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &promptModel{
		req: req,
		options: []option{
			{domain.DecisionSwitch, "Switch account", "sign out and sign in as " + req.RequiredAccount},
			{domain.DecisionKeep, "Continue as current", "join as " + req.CurrentAccount},
			{domain.DecisionAbort, "Don't join", "skip this meeting"},
		},
		keys:   keymap.DefaultKeyMap(),
		help:   help.New(),
		styles: s,
	}
}

// Init implements tea.Model.
func (m *promptModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Select):
		return m.choose(m.options[m.cursor].decision)
	case key.Matches(keyMsg, m.keys.Switch):
		return m.choose(domain.DecisionSwitch)
	case key.Matches(keyMsg, m.keys.Keep):
		return m.choose(domain.DecisionKeep)
	case key.Matches(keyMsg, m.keys.Abort), key.Matches(keyMsg, m.keys.Cancel):
		return m.choose(domain.DecisionAbort)
	}
	return m, nil
}

func (m *promptModel) choose(d domain.Decision) (tea.Model, tea.Cmd) {
	m.chosen = d
	return m, tea.Quit
}

// View implements tea.Model.
func (m *promptModel) View() string {
	if m.chosen != "" {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Account mismatch"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s %s (%s)\n",
		m.styles.Label.Render("Meeting:"), m.req.MeetingTitle, m.req.Platform)
	fmt.Fprintf(&b, "%s %s\n", m.styles.Label.Render("Signed in:"), m.styles.Warning.Render(m.req.CurrentAccount))
	fmt.Fprintf(&b, "%s %s\n\n", m.styles.Label.Render("Required:"), m.req.RequiredAccount)

	for i, opt := range m.options {
		cursor, label := "  ", m.styles.Normal.Render(opt.label)
		if i == m.cursor {
			cursor, label = "> ", m.styles.Selected.Render(opt.label)
		}
		fmt.Fprintf(&b, "%s%s  %s\n", cursor, label, m.styles.Muted.Render(opt.detail))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return m.styles.Box.Render(b.String()) + "\n"
}
