package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"media-catalog/internal/search"
	"media-catalog/internal/snapshot"
)

const (
	columnGap  = "  "
	typeWidth  = 7
	sizeWidth  = 9
	minPathCol = 16
	minTagsCol = 10
)

var headingStyle = lipgloss.NewStyle().Bold(true)

// output writes command results. width is zero when stdout is not a
// terminal, in which case nothing is truncated or styled.
type output struct {
	w      io.Writer
	width  int
	styled bool
}

func newOutput(f *os.File) *output {
	o := &output{w: f}
	fd := int(f.Fd()) //nolint:gosec // file descriptors fit in int
	if term.IsTerminal(fd) {
		o.styled = true
		if width, _, err := term.GetSize(fd); err == nil {
			o.width = width
		}
	}
	return o
}

func (o *output) heading(s string) string {
	if !o.styled {
		return s
	}
	return headingStyle.Render(s)
}

func (o *output) scanSummary(root string, records []snapshot.MediaRecord, elapsed time.Duration) {
	var total int64
	byType := make(map[string]int)
	distinct := make(map[string]struct{})
	for i := range records {
		total += records[i].Filesize
		byType[string(records[i].MediaType)]++
		for _, tag := range records[i].Tags {
			distinct[tag.Normalized] = struct{}{}
		}
	}

	fmt.Fprintln(o.w, o.heading("Scanned "+root))
	fmt.Fprintf(o.w, "  Records:       %s\n", humanize.Comma(int64(len(records))))
	fmt.Fprintf(o.w, "  Total size:    %s\n", sizeLabel(total))
	fmt.Fprintf(o.w, "  Distinct tags: %s\n", humanize.Comma(int64(len(distinct))))
	fmt.Fprintf(o.w, "  Duration:      %v\n", elapsed.Round(time.Millisecond))

	if len(byType) == 0 {
		return
	}
	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Strings(types)

	fmt.Fprintln(o.w, "  By type:")
	for _, t := range types {
		fmt.Fprintf(o.w, "    %-8s %s\n", t, humanize.Comma(int64(byType[t])))
	}
}

func (o *output) searchResult(result search.Result) {
	if result.Total == 0 {
		fmt.Fprintln(o.w, "No matches")
		return
	}
	if len(result.Items) == 0 {
		fmt.Fprintf(o.w, "Page %d is past the last of %s matches\n", result.Page, humanize.Comma(int64(result.Total)))
		return
	}

	rows := make([][4]string, 0, len(result.Items))
	for i := range result.Items {
		record := &result.Items[i]
		tagNames := make([]string, 0, len(record.Tags))
		for _, tag := range record.Tags {
			tagNames = append(tagNames, tag.Normalized)
		}
		rows = append(rows, [4]string{
			record.RelativePath,
			string(record.MediaType),
			sizeLabel(record.Filesize),
			strings.Join(tagNames, ","),
		})
	}

	pathWidth, tagsWidth := o.columnWidths(rows)
	header := [4]string{"PATH", "TYPE", "SIZE", "TAGS"}
	fmt.Fprintln(o.w, o.heading(strings.TrimRight(formatRow(header, pathWidth, tagsWidth), " ")))
	for _, row := range rows {
		fmt.Fprintln(o.w, strings.TrimRight(formatRow(row, pathWidth, tagsWidth), " "))
	}

	first := (result.Page-1)*result.PageSize + 1
	last := first + len(result.Items) - 1
	fmt.Fprintf(o.w, "\nShowing %s-%s of %s (page %d)\n",
		humanize.Comma(int64(first)), humanize.Comma(int64(last)),
		humanize.Comma(int64(result.Total)), result.Page)
}

// columnWidths sizes the path and tags columns to their content, shrinking
// both to fit the terminal when there is one.
func (o *output) columnWidths(rows [][4]string) (int, int) {
	pathWidth, tagsWidth := len("PATH"), len("TAGS")
	for _, row := range rows {
		pathWidth = max(pathWidth, lipgloss.Width(row[0]))
		tagsWidth = max(tagsWidth, lipgloss.Width(row[3]))
	}

	if o.width <= 0 {
		return pathWidth, tagsWidth
	}

	available := o.width - typeWidth - sizeWidth - 3*len(columnGap)
	if pathWidth+tagsWidth <= available {
		return pathWidth, tagsWidth
	}

	// Paths keep three fifths of the room.
	pathWidth = max(minPathCol, min(pathWidth, available*3/5))
	tagsWidth = max(minTagsCol, available-pathWidth)
	return pathWidth, tagsWidth
}

func formatRow(row [4]string, pathWidth, tagsWidth int) string {
	return pad(ansi.Truncate(row[0], pathWidth, "…"), pathWidth) + columnGap +
		pad(row[1], typeWidth) + columnGap +
		pad(row[2], sizeWidth) + columnGap +
		ansi.Truncate(row[3], tagsWidth, "…")
}

func pad(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
