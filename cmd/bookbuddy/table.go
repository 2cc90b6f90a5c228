package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shishobooks/bookbuddy/pkg/models"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

const (
	detailWidth = 72
	none        = "None"
)

func newWriter(tty bool) table.Writer {
	tw := table.NewWriter()
	if tty {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}
	return tw
}

func renderTable(headers []string, rows [][]string, aligns []columnAlignment, tty bool) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := newWriter(tty)

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

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// renderBooks lists books with the index used to pick one of them.
func renderBooks(list []*models.Book, tty bool) string {
	rows := make([][]string, 0, len(list))
	for i, b := range list {
		rows = append(rows, []string{
			strconv.Itoa(i),
			b.DisplayTitle(),
			orNone(b.Authors.String()),
			orNone(b.ISBN()),
			progressSummary(b),
			b.LastModified.String(),
		})
	}
	return renderTable(
		[]string{"#", "Title", "Authors", "ISBN", "Progress", "Modified"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
		tty,
	)
}

// renderBook shows every field of a single book.
func renderBook(b *models.Book, tty bool) string {
	tw := newWriter(tty)
	tw.AppendHeader(table.Row{"Field", "Value"})
	tw.AppendRows([]table.Row{
		{"Title", b.DisplayTitle()},
		{"Authors", orNone(b.Authors.String())},
		{"ISBN-10", str(b.ISBN10)},
		{"ISBN-13", str(b.ISBN13)},
		{"Published", num(b.PublishYear)},
		{"Pages", num(b.PageCount)},
		{"Language", str(b.Language)},
		{"Description", str(b.Description)},
		{"First sentence", str(b.FirstSentence)},
		{"Cover URL", str(b.CoverURL)},
		{"Cover file", str(b.CoverPath)},
		{"Catalog key", str(b.CatalogKey)},
		{"Progress", progressSummary(b)},
	})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: detailWidth, WidthMaxEnforcer: text.WrapSoft},
	})
	return tw.Render()
}

func progressSummary(b *models.Book) string {
	switch {
	case b.Finished != nil && *b.Finished:
		return "finished"
	case b.CurrentPage != nil && b.PageCount != nil && *b.PageCount > 0:
		return strconv.FormatUint(uint64(*b.CurrentPage), 10) + "/" + strconv.FormatUint(uint64(*b.PageCount), 10)
	case b.CurrentPage != nil:
		return "page " + strconv.FormatUint(uint64(*b.CurrentPage), 10)
	case b.DateStarted != nil:
		return "started " + formatDate(*b.DateStarted)
	default:
		return "-"
	}
}

// formatDate renders a YYYYMMDD date as YYYY-MM-DD.
func formatDate(d uint32) string {
	s := strconv.FormatUint(uint64(d), 10)
	if len(s) != 8 {
		return s
	}
	return s[:4] + "-" + s[4:6] + "-" + s[6:]
}

func str(s *string) string {
	if s == nil {
		return none
	}
	return *s
}

func num(n *uint32) string {
	if n == nil {
		return none
	}
	return strconv.FormatUint(uint64(*n), 10)
}

func orNone(s string) string {
	if s == "" {
		return none
	}
	return s
}
