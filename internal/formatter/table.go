// Package formatter renders posts for terminal output.
package formatter

import (
	"encoding/json"
	"fmt"
	"strings"

	"fortunesite/internal/models"
	"fortunesite/pkg/utils"
)

// DefaultTitleWidth is the display width titles are cut to.
const DefaultTitleWidth = 48

const dateLayout = "2006-01-02"

var header = []string{"ID", "DATE", "CATEGORIES", "TITLE"}

var strs = utils.NewStringHelper()

// Options controls table rendering.
type Options struct {
	// TitleWidth caps the TITLE column in display columns; 0 uses
	// DefaultTitleWidth, negative disables truncation.
	TitleWidth int
}

// FormatPosts renders posts as a pipe table aligned by display width, so
// rows with Japanese titles line up.
func FormatPosts(posts []models.Post, opts Options) string {
	width := opts.TitleWidth
	if width == 0 {
		width = DefaultTitleWidth
	}

	table := make([][]string, 0, len(posts)+1)
	table = append(table, header)

	for _, p := range posts {
		title := strs.NormalizeWhitespace(p.Title)
		if width > 0 {
			title = strs.TruncateString(title, width)
		}

		date := ""
		if !p.Date.IsZero() {
			date = p.Date.Format(dateLayout)
		}

		table = append(table, []string{p.ID, date, strings.Join(p.Categories, ", "), title})
	}

	return strings.Join(alignTable(table), "\n") + "\n"
}

// FormatPost renders a single post as labelled lines followed by its body.
func FormatPost(p models.Post) string {
	var sb strings.Builder

	fields := [][2]string{
		{"ID", p.ID},
		{"Slug", p.Slug},
		{"Title", p.Title},
		{"Date", p.Date.Format(dateLayout)},
		{"Categories", strings.Join(p.Categories, ", ")},
	}

	if p.Description != "" {
		fields = append(fields, [2]string{"Description", p.Description})
	}

	if p.Image != "" {
		fields = append(fields, [2]string{"Image", p.Image})
	}

	labelWidth := 0
	for _, f := range fields {
		labelWidth = max(labelWidth, strs.DisplayWidth(f[0]))
	}

	for _, f := range fields {
		fmt.Fprintf(&sb, "%s %s\n", strs.PadRight(f[0]+":", labelWidth+1), f[1])
	}

	if p.Content != "" {
		sb.WriteString("\n")
		sb.WriteString(p.Content)

		if !strings.HasSuffix(p.Content, "\n") {
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// FormatJSON renders v as indented JSON.
func FormatJSON(v any) (string, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}

	return string(out) + "\n", nil
}

// alignTable pads every cell to its column's widest display width and
// inserts a separator row after the header.
func alignTable(table [][]string) []string {
	if len(table) == 0 {
		return nil
	}

	colCount := 0
	for _, row := range table {
		colCount = max(colCount, len(row))
	}

	colWidths := make([]int, colCount)

	for _, row := range table {
		for i, cell := range row {
			colWidths[i] = max(colWidths[i], strs.DisplayWidth(cell))
		}
	}

	// Separators need at least three dashes.
	for i := range colWidths {
		colWidths[i] = max(colWidths[i], 3)
	}

	result := make([]string, 0, len(table)+1)

	for i, row := range table {
		result = append(result, renderRow(row, colWidths))

		if i == 0 {
			sep := make([]string, colCount)
			for j, w := range colWidths {
				sep[j] = strings.Repeat("-", w)
			}

			result = append(result, renderRow(sep, colWidths))
		}
	}

	return result
}

func renderRow(row []string, colWidths []int) string {
	var sb strings.Builder

	sb.WriteString("|")

	for j, w := range colWidths {
		content := ""
		if j < len(row) {
			content = row[j]
		}

		sb.WriteString(" ")
		sb.WriteString(strs.PadRight(content, w))
		sb.WriteString(" |")
	}

	return sb.String()
}
