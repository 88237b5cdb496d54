package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/cognicore/persona/pkg/persona/corpus"
	"github.com/cognicore/persona/pkg/persona/ingest"
)

const (
	previewRunes   = 500
	summaryTopTags = 3
)

var (
	accent = lipgloss.Color("#8BC34A")
	border = lipgloss.Color("#2196F3")
	warn   = lipgloss.Color("#FFC107")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	labelStyle = lipgloss.NewStyle().Bold(true).Width(16)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1)
	warnStyle  = lipgloss.NewStyle().Foreground(warn)
)

type field struct {
	Label string
	Value string
}

// printLines writes a titled, boxed list of label/value pairs.
func printLines(w io.Writer, title string, fields ...field) {
	lines := []string{titleStyle.Render(title), ""}
	for _, f := range fields {
		lines = append(lines, labelStyle.Render(f.Label+":")+" "+f.Value)
	}
	fmt.Fprintln(w, boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
}

type summary struct {
	Subject   string
	Posts     int
	Comments  int
	Items     corpus.Counts
	TopTags   []string
	Succeeded int
	Facets    int
	Dest      string
	Body      string
	Elapsed   time.Duration
	Preview   bool
}

func printSummary(w io.Writer, s summary) {
	printLines(w, "Persona generated",
		field{"User", s.Subject},
		field{"Posts analyzed", humanize.Comma(int64(s.Posts))},
		field{"Comments", humanize.Comma(int64(s.Comments))},
		field{"Rejected", humanize.Comma(int64(s.Items.Rejected))},
		field{"Faulted", humanize.Comma(int64(s.Items.Faulted))},
		field{"Top subreddits", orNone(strings.Join(s.TopTags, ", "))},
		field{"Facets", fmt.Sprintf("%d/%d from the model", s.Succeeded, s.Facets)},
		field{"Output file", s.Dest},
		field{"Size", humanize.Bytes(uint64(len(s.Body)))},
		field{"Elapsed", s.Elapsed.Round(time.Millisecond).String()},
	)
	if s.Succeeded < s.Facets {
		fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("%d facet(s) fell back to placeholder text; rerun with --verbose for details.", s.Facets-s.Succeeded)))
	}
	if s.Preview {
		preview := ingest.TruncateRunes(s.Body, previewRunes)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Preview:")
		fmt.Fprintln(w, strings.Repeat("-", 50))
		fmt.Fprint(w, preview)
		if len(preview) < len(s.Body) {
			fmt.Fprint(w, "...")
		}
		fmt.Fprintln(w)
	}
}
