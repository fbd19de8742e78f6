package tui

import (
	"strings"

	"github.com/MKhiriev/whispee/internal/validators"
)

func newStartForm() *form {
	return newForm(field{label: "Username or email", placeholder: "alice or alice@example.com", limit: validators.IdentifierMaxLen})
}

func (m Model) viewStart() string {
	var b strings.Builder
	b.WriteString("Welcome to whispee.\n\n")
	b.WriteString(m.start.view())
	b.WriteString("\n")
	m.writeFooter(&b, "[Continue]")

	return renderPage("SIGN IN OR SIGN UP", b.String(), "enter: continue")
}
