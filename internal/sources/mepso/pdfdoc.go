package mepso

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// cellGap is the horizontal whitespace, in PDF points, that separates two
// table cells. Gaps narrower than this are treated as spacing inside one
// cell.
const cellGap = 4.0

// document wraps one downloaded report PDF and exposes the two views the
// extractors work on: reconstructed table rows and flattened text lines.
type document struct {
	reader *pdf.Reader
}

func openDocument(raw []byte) (*document, error) {
	r, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	return &document{reader: r}, nil
}

// tableRows reconstructs the report table from the first page's positioned
// text. The table always sits on page one; trailing pages carry notes and
// signatures, and rows from them would shift the positional demand-row
// fallback onto the wrong page. Text fragments sharing a line are clustered
// into cells wherever the horizontal gap between fragments exceeds cellGap.
// The pdf library panics on some malformed documents, so recovery turns
// that into an error.
func (d *document) tableRows() (rows [][]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("pdf text extraction panicked: %v", r)
		}
	}()

	rows, err = d.pageRows(1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no text rows on first page")
	}
	return rows, nil
}

func (d *document) pageRows(pageNo int) ([][]string, error) {
	page := d.reader.Page(pageNo)
	if page.V.IsNull() {
		return nil, fmt.Errorf("page %d missing", pageNo)
	}
	textRows, err := page.GetTextByRow()
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", pageNo, err)
	}
	var rows [][]string
	for _, row := range textRows {
		if cells := clusterCells(row.Content); len(cells) > 0 {
			rows = append(rows, cells)
		}
	}
	return rows, nil
}

// textLines flattens the document into one string per visual line for the
// regex fallback, which unlike the table strategy scans every page. Falls
// back to the library's plain-text dump (one unstructured blob) when row
// extraction fails.
func (d *document) textLines() []string {
	lines, err := d.allPageLines()
	if err == nil && len(lines) > 0 {
		return lines
	}

	lines = nil
	func() {
		defer func() { recover() }()
		plain, perr := d.reader.GetPlainText()
		if perr != nil {
			return
		}
		raw, rerr := io.ReadAll(plain)
		if rerr != nil {
			return
		}
		if s := strings.TrimSpace(string(raw)); s != "" {
			lines = strings.Split(s, "\n")
		}
	}()
	return lines
}

func (d *document) allPageLines() (lines []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			lines, err = nil, fmt.Errorf("pdf text extraction panicked: %v", r)
		}
	}()

	for pageNo := 1; pageNo <= d.reader.NumPage(); pageNo++ {
		rows, perr := d.pageRows(pageNo)
		if perr != nil {
			return nil, perr
		}
		for _, cells := range rows {
			lines = append(lines, strings.Join(cells, " "))
		}
	}
	return lines, nil
}

func clusterCells(texts pdf.TextHorizontal) []string {
	if len(texts) == 0 {
		return nil
	}
	sort.SliceStable(texts, func(i, j int) bool { return texts[i].X < texts[j].X })

	var cells []string
	var cell strings.Builder
	var rightEdge float64
	for i, t := range texts {
		if i > 0 && t.X-rightEdge > cellGap {
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
		}
		cell.WriteString(t.S)
		rightEdge = t.X + t.W
	}
	cells = append(cells, strings.TrimSpace(cell.String()))
	return cells
}
