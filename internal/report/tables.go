package report

import (
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"ratingdrift/internal/analysis"
	"ratingdrift/internal/distribution"
	"ratingdrift/internal/releaseyear"
	"ratingdrift/internal/textutil"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

const minColumnWidth = 8

// renderTable lays out rows under headers. Cells wider than the column's
// share of width are trimmed.
func renderTable(headers []string, rows [][]string, aligns []columnAlignment, width int) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	maxWidth := 0
	if width > 0 {
		maxWidth = max(width/columns, minColumnWidth)
	}
	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:           i + 1,
			Align:            align,
			AlignHeader:      text.AlignLeft,
			WidthMax:         maxWidth,
			WidthMaxEnforcer: text.Trim,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func (r *Reporter) section(title string) {
	for _, line := range renderSectionHeader(title, r.opts.Colorize) {
		fmt.Fprintln(r.opts.Out, line)
	}
}

func (r *Reporter) printTable(headers []string, rows [][]string, aligns []columnAlignment) {
	fmt.Fprintln(r.opts.Out, renderTable(headers, rows, aligns, r.opts.Width))
	fmt.Fprintln(r.opts.Out)
}

// PrintYearCounts prints the release year frequencies of both datasets.
func (r *Reporter) PrintYearCounts(title string, counts analysis.YearCounts) {
	r.section(title)
	rows := make([][]string, 0, len(counts.Previous)+len(counts.After))
	rows = appendYearRows(rows, "previous", counts.Previous)
	rows = appendYearRows(rows, "after", counts.After)
	if len(rows) == 0 {
		fmt.Fprintln(r.opts.Out, "No rows.")
		fmt.Fprintln(r.opts.Out)
		return
	}
	r.printTable([]string{"Dataset", "Year", "Rows"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight})
}

func appendYearRows(rows [][]string, dataset string, counts []releaseyear.YearCount) [][]string {
	for _, c := range counts {
		year := c.Year
		if year == "" {
			year = "(none)"
		}
		rows = append(rows, []string{dataset, year, strconv.Itoa(c.Count)})
	}
	return rows
}

// PrintHeads prints the leading rows of both datasets after column
// selection. Nothing is printed when the selection stage did not run.
func (r *Reporter) PrintHeads(heads analysis.Heads) {
	for _, head := range []struct {
		name  string
		table analysis.Table
	}{
		{"previous", heads.Previous},
		{"after", heads.After},
	} {
		if len(head.table.Columns) == 0 {
			continue
		}
		r.printDataTable(fmt.Sprintf("First %d rows of the %s dataset", len(head.table.Rows), head.name), head.table)
	}
}

// PrintPreview prints the random sample drawn from the after dataset.
func (r *Reporter) PrintPreview(preview analysis.Table) {
	r.printDataTable(fmt.Sprintf("Random sample of %d movies", len(preview.Rows)), preview)
}

// printDataTable prints a data snapshot with the first column left-aligned
// and the rest right-aligned.
func (r *Reporter) printDataTable(title string, t analysis.Table) {
	r.section(title)
	if len(t.Columns) == 0 || len(t.Rows) == 0 {
		fmt.Fprintln(r.opts.Out, "No rows.")
		fmt.Fprintln(r.opts.Out)
		return
	}
	aligns := make([]columnAlignment, len(t.Columns))
	for i := 1; i < len(aligns); i++ {
		aligns[i] = alignRight
	}
	r.printTable(t.Columns, t.Rows, aligns)
}

// PrintFailures lists titles whose release year could not be derived.
func (r *Reporter) PrintFailures(failures []analysis.Issue) {
	if len(failures) == 0 {
		return
	}
	r.section(fmt.Sprintf("Titles without a release year (%d)", len(failures)))
	rows := make([][]string, 0, len(failures))
	for _, f := range failures {
		year := f.Year
		if year == "" {
			year = "-"
		}
		rows = append(rows, []string{strconv.Itoa(f.Row), f.Title, year})
	}
	r.printTable([]string{"Row", "Title", "Assigned year"}, rows, []columnAlignment{alignRight, alignLeft, alignLeft})
}

// PrintLowVotes reports how many movies fall below the popularity threshold.
func (r *Reporter) PrintLowVotes(result *analysis.Result) {
	color := textutil.Ternary(result.LowVotes == 0, ansiGreen, ansiYellow)
	line := fmt.Sprintf("Movies with fewer than %d fan votes: %d", result.MinVotes, result.LowVotes)
	fmt.Fprintln(r.opts.Out, paint(line, color, r.opts.Colorize))
	fmt.Fprintln(r.opts.Out)
}

// PrintFrequencies prints the normalized frequency tables side by side.
func (r *Reporter) PrintFrequencies(previous, after distribution.FrequencyTable) {
	r.section("Normalized frequency distribution (%)")
	var ratings []float64
	for _, t := range []distribution.FrequencyTable{previous, after} {
		for _, row := range t.Rows {
			if !slices.Contains(ratings, row.Rating) {
				ratings = append(ratings, row.Rating)
			}
		}
	}
	slices.Sort(ratings)

	rows := make([][]string, 0, len(ratings))
	for _, rating := range ratings {
		rows = append(rows, []string{
			formatRating(rating),
			formatPercent(previous.Percent(rating)),
			formatPercent(after.Percent(rating)),
		})
	}
	r.printTable(
		[]string{"Stars", previous.Label, after.Label},
		rows,
		[]columnAlignment{alignRight, alignRight, alignRight},
	)
}

// PrintSummary prints mean, median and mode of both samples and the
// relative change of the mean.
func (r *Reporter) PrintSummary(summary distribution.Summary) {
	r.section("Summary statistics")
	title := cases.Title(language.Und)
	rows := make([][]string, 0, len(distribution.StatNames))
	for _, name := range distribution.StatNames {
		prev, _ := summary.Previous.Value(name)
		next, _ := summary.After.Value(name)
		rows = append(rows, []string{
			title.String(name),
			formatStat(prev),
			formatStat(next),
			formatSigned(next - prev),
		})
	}
	r.printTable(
		[]string{"Statistic", summary.Previous.Label, summary.After.Label, "Difference"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
	)

	direction := textutil.Ternary(summary.RelativeChange >= 0, "dropped", "rose")
	color := textutil.Ternary(summary.RelativeChange > 0, ansiRed, ansiGreen)
	line := fmt.Sprintf("Mean rating %s by %.2f%% from %s to %s",
		direction, math.Abs(summary.RelativeChange)*100, summary.Previous.Label, summary.After.Label)
	fmt.Fprintln(r.opts.Out, paint(line, color, r.opts.Colorize))
	fmt.Fprintln(r.opts.Out)
}

func formatRating(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) }

func formatPercent(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

func formatStat(v float64) string { return strconv.FormatFloat(v, 'f', 3, 64) }

func formatSigned(v float64) string {
	if v == 0 {
		return "0.000"
	}
	return fmt.Sprintf("%+.3f", v)
}
