package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

const statusTTL = 2 * time.Second

func (m Model) viewHome() string {
	var b strings.Builder

	if user := m.view.User; user != nil {
		fmt.Fprintf(&b, "Signed in as %s\n\n", user.Username)
		fmt.Fprintf(&b, "Username   │ %s\n", user.Username)
		fmt.Fprintf(&b, "Email      │ %s\n", user.Email)
	}
	fmt.Fprintf(&b, "Session id │ %s\n", fitText(m.view.SessionID, 40))
	m.writeChatList(&b)

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + m.errMsg))
		b.WriteString("\n")
	}

	return renderPage("HOME", strings.TrimRight(b.String(), "\n"), "↑/↓: choose │ enter: open chat │ r: reload │ c: copy session id │ l: log out")
}

func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: clipboard.WriteAll(text)}
	}
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
