// Package observability renders quality reports for the terminal.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/kdjkdj1234567890-bit/content-engine/internal/types"
)

const (
	// boxWidth is the inner width of report boxes
	boxWidth = 64
	// previewLines is the number of content lines shown for generated copy
	previewLines = 8
)

var (
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))  // yellow
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))  // gray
	titleStyle  = lipgloss.NewStyle().Bold(true)
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Width(boxWidth)
	plainStyle  = lipgloss.NewStyle()
	gradeColors = map[string]lipgloss.Color{
		"S": "13", // magenta
		"A": "10",
		"B": "12", // blue
		"C": "3",
		"D": "9",
		"F": "9",
	}
)

// Printer writes styled reports
type Printer struct {
	out      io.Writer
	colorize bool
}

// NewPrinter creates a Printer writing to out with colors enabled
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out, colorize: true}
}

// WithoutColor disables foreground colors; borders are still drawn
func (p *Printer) WithoutColor() *Printer {
	p.colorize = false
	return p
}

func (p *Printer) style(s lipgloss.Style) lipgloss.Style {
	if !p.colorize {
		return plainStyle
	}
	return s
}

// printBox prints content inside a rounded box headed by title
//
//nolint:errcheck // terminal output; errors are not recoverable
func (p *Printer) printBox(title, content string) {
	body := p.style(titleStyle).Render(title) + "\n\n" + content
	fmt.Fprintln(p.out, boxStyle.Render(body))
}

// PrintGenerated outputs a content preview followed by its quality report
func (p *Printer) PrintGenerated(gc *types.GeneratedContent) {
	if gc == nil {
		return
	}

	lines := strings.Split(gc.Content, "\n")
	preview := strings.Join(lines[:min(len(lines), previewLines)], "\n")
	if len(lines) > previewLines {
		preview += "\n" + p.style(mutedStyle).Render(fmt.Sprintf("... %d more lines", len(lines)-previewLines))
	}

	heading := strings.ToUpper(string(gc.Type))
	if gc.Title != "" {
		heading += " · " + truncate(gc.Title, 40)
	}
	p.printBox(heading, preview)
	p.PrintReport(gc.Report)
}

// PrintReport outputs every analyzer section and the composite grade
func (p *Printer) PrintReport(r *types.QualityReport) {
	if r == nil {
		return
	}

	if r.SEO != nil {
		p.printBox(fmt.Sprintf("SEO 분석 %d/100", r.SEO.Score), p.details(r.SEO.Details))
	} else {
		p.printBox("SEO 분석", p.style(mutedStyle).Render("이 형식에는 적용되지 않음"))
	}
	if r.FactCheck != nil {
		p.printBox(fmt.Sprintf("신뢰도 검사 %d/100", r.FactCheck.Score), p.details(r.FactCheck.Details))
	}
	if r.Performance != nil {
		title := fmt.Sprintf("성과 예측 %d/100 [%s]", r.Performance.Score, r.Performance.Grade)
		if r.Performance.GradeLabel != "" {
			title += " " + r.Performance.GradeLabel
		}
		p.printBox(title, p.details(r.Performance.Details))
	}
	p.PrintQuality(r.Quality)
}

// PrintQuality outputs the composite grade with strengths, issues and the top suggestion
func (p *Printer) PrintQuality(q types.CompositeQualityResult) {
	var sb strings.Builder

	grade := lipgloss.NewStyle().Bold(true).Foreground(gradeColors[q.Grade])
	fmt.Fprintf(&sb, "%s  %d점  %s\n", p.style(grade).Render(q.Grade), q.Score, q.GradeLabel)
	fmt.Fprintf(&sb, "SEO %d · 신뢰도 %d · 성과 %d\n",
		q.Breakdown.SEO, q.Breakdown.FactCheck, q.Breakdown.Performance)

	for _, s := range q.Strengths {
		sb.WriteString(p.style(passStyle).Render("  + "+s) + "\n")
	}
	for _, issue := range q.Issues {
		sb.WriteString(p.style(failStyle).Render("  - "+issue) + "\n")
	}
	if q.TopSuggestion != nil {
		sb.WriteString("\n" + p.style(warnStyle).Render("→ "+*q.TopSuggestion) + "\n")
	}

	p.printBox("종합 품질", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFooter outputs the provider line with the total generation time
//
//nolint:errcheck // terminal output
func (p *Printer) PrintFooter(poweredBy string, elapsed time.Duration) {
	line := fmt.Sprintf("powered by %s · %s", poweredBy, elapsed.Round(100*time.Millisecond))
	fmt.Fprintln(p.out, p.style(mutedStyle).Render(line))
}

// details renders one line per detail with its status marker, points and tip
func (p *Printer) details(details []types.AnalysisDetail) string {
	if len(details) == 0 {
		return p.style(mutedStyle).Render("분석할 내용이 없습니다")
	}

	var sb strings.Builder
	for i, d := range details {
		marker, style := "✓", passStyle
		switch d.Status {
		case types.StatusWarn:
			marker, style = "!", warnStyle
		case types.StatusFail:
			marker, style = "✗", failStyle
		}

		points := fmt.Sprintf("%+d", d.Points)
		if d.Max != nil {
			points = fmt.Sprintf("%d/%d", d.Points, *d.Max)
		}
		fmt.Fprintf(&sb, "%s %s %s", p.style(style).Render(marker), d.Label, p.style(mutedStyle).Render("("+points+")"))
		if d.Tip != "" {
			fmt.Fprintf(&sb, "\n    → %s", d.Tip)
		}
		if i < len(details)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// truncate shortens s to n runes, marking the cut with "..."
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
