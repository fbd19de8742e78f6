// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"strings"

	"github.com/MKhiriev/whispee/models"
)

func renderBuildInfoWindow(client models.AppBuildInfo, server *models.AppBuildInfo, serverErr string) string {
	var b strings.Builder

	b.WriteString("Application: whispee\n\n")
	writeBuildInfo(&b, "Client", client)

	b.WriteString("\n")
	switch {
	case server != nil:
		writeBuildInfo(&b, "Server", *server)
	case serverErr != "":
		b.WriteString("Server: ")
		b.WriteString(serverErr)
		b.WriteString("\n")
	default:
		b.WriteString("Server: loading...\n")
	}

	return renderPage("ABOUT", strings.TrimRight(b.String(), "\n"), "esc: back")
}

func writeBuildInfo(b *strings.Builder, title string, info models.AppBuildInfo) {
	b.WriteString(title)
	b.WriteString("\n  Version: ")
	b.WriteString(valueOrNA(info.BuildVersion))
	b.WriteString("\n  Date:    ")
	b.WriteString(valueOrNA(info.BuildDate))
	b.WriteString("\n  Commit:  ")
	b.WriteString(valueOrNA(info.BuildCommit))
	b.WriteString("\n")
}
