package tui

import (
	"fmt"
	"strings"

	"github.com/testology/psyengine/internal/domain/scoring"
)

// RenderDebug renders the per-item trace of a scoring run.
func RenderDebug(rep *scoring.DebugReport) string {
	var b strings.Builder

	b.WriteString("\n  " + sectionHeaderStyle.Render("Scoring trace") + " " +
		dimStyle.Render(fmt.Sprintf("(%s, %s, scale %s–%s)",
			rep.TestID, rep.Config.ScoringType,
			formatScore(rep.Config.ScaleMin), formatScore(rep.Config.ScaleMax))) + "\n\n")

	fmt.Fprintf(&b, "    %s\n", dimStyle.Render(fmt.Sprintf("%-5s %-5s %-5s %-8s %-14s %s", "q", "raw", "rev", "value", "subscale", "text")))
	for _, it := range rep.Items {
		rev := " "
		if it.Reverse {
			rev = warnStyle.Render("↺")
		}
		fmt.Fprintf(&b, "    %-5d %-5s %s     %-8s %-14s %s\n",
			it.QuestionID, formatScore(it.Raw), rev, formatScore(it.Weighted), it.Subscale, faintStyle.Render(it.Text))
	}
	if len(rep.Items) == 0 {
		b.WriteString("    " + skipStyle.Render("no answered items") + "\n")
	}

	b.WriteString("\n  " + sectionHeaderStyle.Render("Subscales (unrounded)") + "\n")
	for _, s := range rep.Subscales {
		score := skipStyle.Render("missing")
		if s.Score != nil {
			score = fmt.Sprintf("%.4f", *s.Score)
		}
		fmt.Fprintf(&b, "    %s %s %s\n", nameStyle.Render(padRight(s.ID, 20)), score, faintStyle.Render(fmt.Sprint(s.Items)))
	}

	b.WriteString("\n  " + hintStyle.Render("Totals and levels use unrounded scores; displayed values are rounded to 2 decimals."))
	b.WriteString("\n")
	return b.String()
}
