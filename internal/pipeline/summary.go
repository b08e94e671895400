package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"trsi/pkg/utils"
)

const (
	titleWidth = 40
	hashWidth  = 12
)

// TotalItems is the number of items written across categories.
func (s *Summary) TotalItems() int {
	n := 0
	for _, c := range s.Categories {
		n += c.Items
	}

	return n
}

// TotalSkipped is the number of entries dropped across categories.
func (s *Summary) TotalSkipped() int {
	n := 0
	for _, c := range s.Categories {
		n += len(c.Skipped)
	}

	return n
}

// RenderSummary writes a human readable report of s to w.
func RenderSummary(w io.Writer, s *Summary) error {
	categories := newTable()
	categories.SetTitle("Categories")
	categories.AppendHeader(table.Row{"Category", "Items", "Skipped", "File", "SHA-256"})

	for _, c := range s.Categories {
		categories.AppendRow(table.Row{c.Name, c.Items, len(c.Skipped), c.Path, shortHash(c.Hash)})
	}

	categories.AppendFooter(table.Row{"Total", s.TotalItems(), s.TotalSkipped(), "", ""})
	categories.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})

	images := newTable()
	images.SetTitle("Images")
	images.AppendHeader(table.Row{"Assets", "Written", "Failed", "Missing", "Size"})
	images.AppendRow(table.Row{
		s.Transcode.Assets,
		s.Transcode.Succeeded,
		s.Transcode.Failed,
		len(s.Transcode.Missing),
		humanize.Bytes(uint64(s.Transcode.BytesWritten)),
	})

	out := categories.Render() + "\n" + images.Render() + "\n"

	if s.TotalSkipped() > 0 {
		skipped := newTable()
		skipped.SetTitle("Skipped entries")
		skipped.AppendHeader(table.Row{"Category", "Entry", "Title", "Reason"})

		for _, c := range s.Categories {
			for _, skip := range c.Skipped {
				skipped.AppendRow(table.Row{c.Name, skip.EntryID, utils.Truncate(skip.Title, titleWidth), skip.Err})
			}
		}

		out += skipped.Render() + "\n"
	}

	out += fmt.Sprintf("Run %s finished in %s\n", s.RunID, s.Duration.Round(time.Millisecond))

	_, err := io.WriteString(w, out)

	return err
}

func newTable() table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	return tw
}

func shortHash(hash string) string {
	if len(hash) <= hashWidth {
		return hash
	}

	return hash[:hashWidth]
}
