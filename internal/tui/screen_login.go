package tui

import (
	"strings"

	"github.com/MKhiriev/whispee/internal/validators"
)

const (
	loginIdentifier = iota
	loginPassword
)

func newLoginForm() *form {
	return newForm(
		field{label: "Username or email", placeholder: "identifier", limit: validators.IdentifierMaxLen},
		field{label: "Password", placeholder: "password", limit: validators.PasswordMaxLen, secret: true},
	)
}

// prepareLogin fills the login form for a known account.
func (m *Model) prepareLogin(identifier, username string) {
	m.login.reset()
	m.login.set(loginIdentifier, identifier)
	m.login.focusOn(loginPassword)
	m.greeting = username
}

func (m Model) viewLogin() string {
	var b strings.Builder
	if m.greeting != "" {
		b.WriteString("Welcome back, ")
		b.WriteString(m.greeting)
		b.WriteString("!\n\n")
	}
	b.WriteString(m.login.view())
	b.WriteString("\n")
	m.writeFooter(&b, "[Sign in]")

	return renderPage("SIGN IN", b.String(), "esc: back │ tab: next field │ enter: submit")
}
