package tui

func renderErrorOverlay(message string) string {
	content := errorStyle.Render("Error") + "\n\n" + message + "\n\n" + helpStyle.Render("enter / esc: dismiss")
	return overlayBoxStyle.Render(content)
}
