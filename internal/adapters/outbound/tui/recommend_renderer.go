package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/testology/psyengine/internal/domain/recommend"
)

// RenderRecommendations renders a ranked recommendation payload.
func RenderRecommendations(p recommend.Payload) string {
	var b strings.Builder
	b.WriteString("\n")

	if len(p.Signatures) > 0 {
		var parts []string
		for _, s := range p.Signatures {
			parts = append(parts, fmt.Sprintf("%s %s", dimStyle.Render(string(s.Family)), titleStyle.Render(s.Code)))
		}
		b.WriteString("  " + strings.Join(parts, faintStyle.Render("  ·  ")) + "\n\n")
	}

	if len(p.Items) == 0 {
		b.WriteString("  " + dimStyle.Render("No recommendations right now.") + "\n")
	} else {
		b.WriteString("  " + titleStyle.Render("Recommended next tests") + "\n")
		b.WriteString("  " + separatorLine + "\n")
		for i, it := range p.Items {
			rank := lipgloss.NewStyle().Bold(true).Foreground(priorityColor(it.Priority)).Render(fmt.Sprintf("%d.", i+1))
			fmt.Fprintf(&b, "  %s %s %s\n", rank, nameStyle.Render(DisplayName(it.TestID)), faintStyle.Render("("+it.Source+")"))
			if it.Reason != "" {
				fmt.Fprintf(&b, "     %s\n", dimStyle.Render(it.Reason))
			}
		}
	}

	for _, s := range p.Skipped {
		fmt.Fprintf(&b, "  %s %s\n", skipStyle.Render("○ "+string(s.Family)+" skipped:"), skipStyle.Render(s.Reason))
	}
	return b.String()
}

// priorityColor highlights screening-driven suggestions.
func priorityColor(priority int) lipgloss.Color {
	switch {
	case priority < recommend.BandPersonality:
		return danger
	case priority < recommend.BandVocational:
		return warning
	default:
		return success
	}
}
