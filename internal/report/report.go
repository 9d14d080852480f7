// Package report renders run artifacts as terminal tables.
package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/forPelevin/vismanifest/internal/dispatch"
	"github.com/forPelevin/vismanifest/internal/types"
)

const (
	ansiReset = "\x1b[0m"
	ansiBlue  = "\x1b[34m"
)

type alignment int

const (
	alignLeft alignment = iota
	alignRight
)

// Renderer writes sections to W. Headers are colored only when W is a
// terminal.
type Renderer struct {
	W        io.Writer
	colorize bool
}

func New(w io.Writer) *Renderer {
	return &Renderer{W: w, colorize: shouldColorize(w)}
}

func (r *Renderer) Summary(s types.ManifestSummary) {
	r.section("Manifest " + s.Title)
	r.table([]string{"Field", "Value"}, [][]string{
		{"project", s.ProjectID},
		{"characters", fmt.Sprintf("%d (%d physical)", s.Characters, s.PhysicalCharacters)},
		{"character states", strconv.Itoa(s.CharacterStates)},
		{"settings", strconv.Itoa(s.Settings)},
		{"setting states", strconv.Itoa(s.SettingStates)},
		{"state changes", strconv.Itoa(s.StateChanges)},
		{"setting changes", strconv.Itoa(s.SettingStateChanges)},
		{"init frames", strconv.Itoa(s.InitFrames)},
		{"clips", strconv.Itoa(s.Clips)},
	}, []alignment{alignLeft, alignRight})

	r.section("Images")
	r.table([]string{"Category", "Count"}, [][]string{
		{types.PromptCharacterReference, strconv.Itoa(s.Images.CharacterReferences)},
		{types.PromptSettingReference, strconv.Itoa(s.Images.SettingReferences)},
		{types.PromptCharacterState, strconv.Itoa(s.Images.CharacterStates)},
		{types.PromptSettingState, strconv.Itoa(s.Images.SettingStates)},
		{types.PromptInitFrame, strconv.Itoa(s.Images.InitFrames)},
		{"total", strconv.Itoa(s.Images.Total)},
	}, []alignment{alignLeft, alignRight})
}

func (r *Renderer) Bundle(b types.ClipBundle) {
	r.section(fmt.Sprintf("Clips: %d total, %d parallel, %d sequential", b.TotalClips, b.ParallelEligible, b.Sequential))
	rows := make([][]string, 0, len(b.Chains))
	for _, c := range b.Chains {
		rows = append(rows, []string{c.ShotID, strconv.Itoa(len(c.ClipIDs)), strconv.Itoa(c.Duration), strings.Join(c.ClipIDs, " ")})
	}
	r.table([]string{"Shot", "Blocks", "Duration", "Clips"}, rows, []alignment{alignLeft, alignRight, alignRight, alignLeft})
	fmt.Fprintf(r.W, "requested %.1fs, generated %ds\n", b.RequestedDuration, b.ClipDuration)
}

func (r *Renderer) Dispatch(results []dispatch.Result) {
	r.section("Dispatch")
	rows := make([][]string, 0, len(results))
	for _, res := range results {
		rows = append(rows, []string{res.ShotID, res.ClipID, orDash(res.PrevFrame), res.LastFrame})
	}
	r.table([]string{"Shot", "Clip", "From", "Last frame"}, rows, nil)
}

func (r *Renderer) section(title string) {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	if r.colorize {
		line = ansiBlue + line + ansiReset
	}
	fmt.Fprintln(r.W, line)
}

func (r *Renderer) table(headers []string, rows [][]string, aligns []alignment) {
	fmt.Fprintln(r.W, renderTable(headers, rows, aligns))
}

func renderTable(headers []string, rows [][]string, aligns []alignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		tr := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				tr[i] = row[i]
			} else {
				tr[i] = ""
			}
		}
		tw.AppendRow(tr)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

func shouldColorize(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
