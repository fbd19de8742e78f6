package tui

import (
	"strings"

	"github.com/MKhiriev/whispee/internal/validators"
	"github.com/MKhiriev/whispee/models"
)

const (
	registerUsername = iota
	registerEmail
	registerPassword
)

func newRegisterForm() *form {
	return newForm(
		field{label: "Username", placeholder: "username", limit: validators.UsernameMaxLen},
		field{label: "Email", placeholder: "email", limit: validators.EmailMaxLen},
		field{label: "Password", placeholder: "password", limit: validators.PasswordMaxLen, secret: true},
	)
}

// prepareRegister pre-fills the register form with an unknown identifier,
// as email when it looks like one.
func (m *Model) prepareRegister(identifier string) {
	m.register.reset()
	if models.IsEmailIdentifier(identifier) {
		m.register.set(registerEmail, identifier)
		m.register.focusOn(registerUsername)
	} else {
		m.register.set(registerUsername, identifier)
		m.register.focusOn(registerEmail)
	}
}

func (m Model) viewRegister() string {
	var b strings.Builder
	b.WriteString("No account found. Create one:\n\n")
	b.WriteString(m.register.view())
	b.WriteString("\n")
	m.writeFooter(&b, "[Create account]")

	return renderPage("SIGN UP", b.String(), "esc: back │ tab: next field │ enter: submit")
}
