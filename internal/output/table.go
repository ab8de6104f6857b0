package output

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/fatih/color"
	"github.com/montanaflynn/stats"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/naka-gawa/conflict-risk/internal/domain"
)

var (
	highColor   = color.New(color.FgRed, color.Bold)
	mediumColor = color.New(color.FgYellow, color.Bold)
	lowColor    = color.New(color.FgGreen)
)

// colorLevel applies the color associated with a risk level.
func colorLevel(level domain.RiskLevel) string {
	switch level {
	case domain.RiskHigh:
		return highColor.Sprint(level)
	case domain.RiskMedium:
		return mediumColor.Sprint(level)
	default:
		return lowColor.Sprint(level)
	}
}

// WriteTable prints a summary table followed by the files whose modification count is at
// or above the given percentile.
func WriteTable(w io.Writer, r *domain.AnalysisReport, percentile float64) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Value"})

	var data [][]string
	for _, f := range fields(r) {
		switch f[0] {
		case "frequently_modified_files":
			continue
		case "risk_level":
			data = append(data, []string{f[0], colorLevel(r.RiskLevel)})
		default:
			data = append(data, []string{f[0], f[1]})
		}
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	hot := Hotspots(r.FrequentlyModifiedFiles, percentile)
	if len(hot) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "\nMost modified files (p%g and above):\n", percentile); err != nil {
		return err
	}
	hotTable := tablewriter.NewWriter(w)
	hotTable.Header([]string{"Path", "Commits"})
	hotTable.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	rows := make([][]string, 0, len(hot))
	for _, h := range hot {
		rows = append(rows, []string{h.Path, strconv.Itoa(h.Count)})
	}
	if err := hotTable.Bulk(rows); err != nil {
		return err
	}
	return hotTable.Render()
}

// FileCount is a modified path and the number of commits that touched it.
type FileCount struct {
	Path  string
	Count int
}

// Hotspots returns the files whose count reaches the percentile of all counts,
// most modified first. The percentile is linearly interpolated between counts; if it
// cannot be computed (out-of-range percentile) the maximum count is used.
func Hotspots(files map[string]int, percentile float64) []FileCount {
	if len(files) == 0 {
		return nil
	}
	counts := make(stats.Float64Data, 0, len(files))
	for _, c := range files {
		counts = append(counts, float64(c))
	}
	threshold, err := stats.Percentile(counts, percentile)
	if err != nil {
		threshold, _ = stats.Max(counts)
	}

	var hot []FileCount
	for path, c := range files {
		if float64(c) >= threshold {
			hot = append(hot, FileCount{Path: path, Count: c})
		}
	}
	sort.Slice(hot, func(i, j int) bool {
		if hot[i].Count != hot[j].Count {
			return hot[i].Count > hot[j].Count
		}
		return hot[i].Path < hot[j].Path
	})
	return hot
}
