package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/kiddomusic/riyaz/internal/model"
)

// renderPreview builds the right panel content for one message: a header
// with sender and timestamp, then the wrapped body and any Drive links.
func renderPreview(msg *model.Message, width int) string {
	var sb strings.Builder

	header := fmt.Sprintf("%s, %s %s", msg.Sender, msg.Date, msg.Time)
	sb.WriteString(stylePreviewHeader.Render(header))
	sb.WriteString("\n\n")

	body := lipgloss.NewStyle().Width(width).Render(msg.Body)
	sb.WriteString(body)

	if links := msg.DriveLinks(); len(links) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(stylePreviewHeader.Render("Drive links"))
		for _, link := range links {
			sb.WriteString("\n  " + link)
		}
	}

	return sb.String()
}

// newViewport creates a new viewport model with the given dimensions.
func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.Style = stylePanelBorder
	return vp
}
