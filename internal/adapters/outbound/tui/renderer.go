package tui

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/camelcase"

	"github.com/testology/psyengine/internal/domain"
)

// ── Warm palette ──
var (
	accent    = lipgloss.Color("#D97706") // amber
	fg        = lipgloss.Color("#E8E6E3") // warm light gray
	dim       = lipgloss.Color("#6B7280") // muted gray
	faint     = lipgloss.Color("#3F3F46") // very dim
	success   = lipgloss.Color("#22C55E") // green
	lime      = lipgloss.Color("#A3E635")
	warning   = lipgloss.Color("#F59E0B") // amber-yellow
	orange    = lipgloss.Color("#FB923C")
	danger    = lipgloss.Color("#EF4444") // red
	skipColor = lipgloss.Color("#4B5563") // dark gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	// levelPalette runs from the first (mildest) cutoff band to the last.
	levelPalette = []lipgloss.Color{success, lime, warning, orange, danger}

	dimStyle           = lipgloss.NewStyle().Foreground(dim)
	faintStyle         = lipgloss.NewStyle().Foreground(faint)
	passStyle          = lipgloss.NewStyle().Foreground(success)
	warnStyle          = lipgloss.NewStyle().Foreground(warning)
	skipStyle          = lipgloss.NewStyle().Foreground(skipColor)
	titleStyle         = lipgloss.NewStyle().Bold(true).Foreground(fg)
	nameStyle          = lipgloss.NewStyle().Bold(true).Foreground(fg)
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	hintStyle          = lipgloss.NewStyle().Foreground(dim).Italic(true)
	separatorLine      = faintStyle.Render(strings.Repeat("─", 64))
)

// DisplayName turns a test id into words: "LifestyleHarmony" becomes
// "Lifestyle Harmony" while acronyms such as "PSS10" stay intact.
func DisplayName(testID string) string {
	var words []string
	for _, part := range camelcase.Split(testID) {
		if strings.TrimSpace(part) == "" || part == "-" || part == "_" {
			continue
		}
		if n := len(words); n > 0 && isDigits(part) {
			words[n-1] += part
			continue
		}
		words = append(words, part)
	}
	return strings.Join(words, " ")
}

// RenderResult formats a scored result for terminal output. cfg supplies
// the scale used to size the bars.
func RenderResult(res *domain.ScoredResult, cfg domain.TestConfig) string {
	var b strings.Builder

	// ── Header ──
	title := headerStyle.Render(DisplayName(res.TestID))
	subtitle := dimStyle.Render(res.Title)
	color := levelColor(cfg, res.Level())

	scoreLine := "no score"
	if res.TotalScore != nil {
		scoreLine = formatScore(*res.TotalScore)
	}
	scoreStyled := lipgloss.NewStyle().Bold(true).Foreground(color).Render(scoreLine)
	levelStyled := dimStyle.Render("no matching level")
	if res.TotalLevelLabel != nil {
		levelStyled = lipgloss.NewStyle().Bold(true).Foreground(color).Render(*res.TotalLevelLabel)
	}

	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + scoreStyled + "  " + levelStyled))
	b.WriteString("\n\n")

	if res.Interpretation != nil {
		b.WriteString("  " + *res.Interpretation + "\n\n")
	}

	// ── Subscales ──
	b.WriteString("  " + titleStyle.Render("Subscales") + "\n")
	for i, s := range res.Subscales {
		label := s.Label
		if label == "" {
			label = s.ID
		}
		name := nameStyle.Render(padRight(label, 24))
		if s.Missing() {
			fmt.Fprintf(&b, "  %s %s %s\n", skipStyle.Render("○"), name, skipStyle.Render("no answers"))
			continue
		}
		items := 0
		if i < len(cfg.Subscales) {
			items = len(cfg.Subscales[i].Items)
		}
		pct := percentOfRange(*s.Score, cfg, items)
		fmt.Fprintf(&b, "  %s %s %s  %s\n", passStyle.Render("●"), name, coloredBar(pct, 20), formatScore(*s.Score))
	}

	// ── Recommendations ──
	if len(res.RecommendedTests) > 0 || len(res.RecommendationMessages) > 0 {
		b.WriteString("\n  " + separatorLine + "\n\n")
		b.WriteString("  " + titleStyle.Render("Suggested next") + "\n")
		for _, id := range res.RecommendedTests {
			fmt.Fprintf(&b, "    %s %s %s\n", warnStyle.Render("→"), nameStyle.Render(DisplayName(id)), faintStyle.Render(id))
		}
		for _, m := range res.RecommendationMessages {
			fmt.Fprintf(&b, "    %s\n", dimStyle.Render(m))
		}
	}

	b.WriteString("\n")
	return b.String()
}

// RenderHistory formats a user's records for terminal output, in the order given.
func RenderHistory(records []domain.HistoryRecord) string {
	if len(records) == 0 {
		return "  " + dimStyle.Render("No history found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	for _, r := range records {
		rev := r.DefinitionsRevision
		if len(rev) > 7 {
			rev = rev[:7]
		}
		if rev == "" {
			rev = "·······"
		}
		score := "—"
		if r.Score != nil {
			score = formatScore(*r.Score)
		}
		level := r.LevelLabel
		if level == "" {
			level = r.LevelID
		}

		fmt.Fprintf(&b, "  %s  %s  %s  %s  %s\n",
			dimStyle.Render(r.CreatedAt.Format("2006-01-02")),
			faintStyle.Render(rev),
			nameStyle.Render(padRight(DisplayName(r.TestID), 22)),
			padRight(score, 7),
			level,
		)
	}
	return b.String()
}

// RenderTests lists the registered tests.
func RenderTests(reg *domain.Registry) string {
	var b strings.Builder
	b.WriteString("\n  " + titleStyle.Render("Available tests") + "  " +
		dimStyle.Render(fmt.Sprintf("(%d)", reg.Len())) + "\n\n")
	for _, id := range reg.IDs() {
		cfg, _ := reg.Lookup(id)
		fmt.Fprintf(&b, "  %s %s %s\n",
			nameStyle.Render(padRight(id, 18)),
			padRight(DisplayName(id), 22),
			dimStyle.Render(cfg.Title))
	}
	return b.String()
}

// RenderTestDetail describes one definition: scale, subscales and levels.
func RenderTestDetail(cfg domain.TestConfig) string {
	var b strings.Builder
	b.WriteString(boxStyle.Render(headerStyle.Render(DisplayName(cfg.ID)) + "\n" + dimStyle.Render(cfg.Title)))
	b.WriteString("\n")

	fmt.Fprintf(&b, "\n  %s %s–%s, %s scoring\n",
		dimStyle.Render("scale"), formatScore(cfg.ScaleMin), formatScore(cfg.ScaleMax), cfg.ScoringType)
	if len(cfg.ReverseItems) > 0 {
		fmt.Fprintf(&b, "  %s %v\n", dimStyle.Render("reverse items"), cfg.ReverseItems)
	}

	b.WriteString("\n  " + sectionHeaderStyle.Render("Subscales") + "\n")
	for _, s := range cfg.Subscales {
		fmt.Fprintf(&b, "    %s %s\n", nameStyle.Render(padRight(s.ID, 20)), faintStyle.Render(fmt.Sprint(s.Items)))
	}

	if len(cfg.Cutoffs) > 0 {
		b.WriteString("\n  " + sectionHeaderStyle.Render("Levels") + "\n")
		for _, c := range cfg.Cutoffs {
			style := lipgloss.NewStyle().Foreground(levelColor(cfg, c.ID))
			fmt.Fprintf(&b, "    %s %s %s\n",
				style.Render("●"),
				padRight(c.Label, 20),
				dimStyle.Render(fmt.Sprintf("%s–%s", formatScore(c.Min), formatScore(c.Max))))
		}
	}
	return b.String()
}

// levelColor colors a level by its position among the declared bands.
func levelColor(cfg domain.TestConfig, levelID string) lipgloss.Color {
	n := len(cfg.Cutoffs)
	for i, c := range cfg.Cutoffs {
		if c.ID != levelID {
			continue
		}
		if n == 1 {
			return levelPalette[0]
		}
		idx := i * (len(levelPalette) - 1) / (n - 1)
		return levelPalette[idx]
	}
	return fg
}

// percentOfRange places v on the theoretical range of a subscale with
// the given number of items.
func percentOfRange(v float64, cfg domain.TestConfig, items int) int {
	lo, hi := cfg.ScaleMin, cfg.ScaleMax
	if cfg.ScoringType == domain.ScoringSum && items > 0 {
		lo, hi = lo*float64(items), hi*float64(items)
	}
	if hi <= lo {
		return 0
	}
	return int(math.Round((v - lo) / (hi - lo) * 100))
}

func coloredBar(pct, width int) string {
	filled := max(0, min(pct*width/100, width))
	empty := width - filled

	filledStr := lipgloss.NewStyle().Foreground(accent).Render(strings.Repeat("█", filled))
	emptyStr := lipgloss.NewStyle().Foreground(faint).Render(strings.Repeat("░", empty))
	return filledStr + emptyStr
}

func formatScore(v float64) string {
	return fmt.Sprintf("%g", v)
}

func padRight(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
