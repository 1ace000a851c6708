package tui

func renderError(message string) string {
	if message == "" {
		return ""
	}
	return "\n" + errorStyle.Render("Error: "+message)
}

func renderStatus(message string) string {
	if message == "" {
		return ""
	}
	return "\n" + okStyle.Render(message)
}
