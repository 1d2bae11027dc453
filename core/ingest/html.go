package ingest

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"data-reconciler/core/dataset"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// LoadHTML reads the first <table> of an HTML document. Header cells come from
// <thead> or from leading rows made only of <th> cells; without either, columns
// are numbered from 0.
func LoadHTML(path string) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	root, err := html.Parse(f)
	if err != nil {
		return nil, err
	}
	table := findTable(root)
	if table == nil {
		return nil, fmt.Errorf("no tables found")
	}

	headRows, bodyRows := tableRows(table)
	grid := expandSpans(append(headRows, bodyRows...))
	nHead := len(headRows)
	if nHead == 0 {
		for nHead < len(bodyRows) && bodyRows[nHead].allHeader {
			nHead++
		}
	}

	width := 0
	for _, row := range grid {
		width = max(width, len(row))
	}
	header := make([]string, width)
	if nHead == 0 {
		for i := range header {
			header[i] = strconv.Itoa(i)
		}
	} else {
		for j := range header {
			var parts []string
			for _, row := range grid[:nHead] {
				if j < len(row) && row[j] != "" && (len(parts) == 0 || parts[len(parts)-1] != row[j]) {
					parts = append(parts, row[j])
				}
			}
			header[j] = strings.Join(parts, " ")
		}
	}
	return fromRecords(path, header, grid[nHead:])
}

func findTable(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Table {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTable(c); t != nil {
			return t
		}
	}
	return nil
}

type htmlCell struct {
	text    string
	colspan int
	rowspan int
}

type htmlRow struct {
	cells     []htmlCell
	allHeader bool
}

// tableRows collects the rows of table, split into <thead> rows and the rest.
// Rows of nested tables are skipped.
func tableRows(table *html.Node) (head, body []htmlRow) {
	var walk func(n *html.Node, inHead bool)
	walk = func(n *html.Node, inHead bool) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Table:
				continue
			case atom.Thead:
				walk(c, true)
			case atom.Tr:
				row := readRow(c)
				if len(row.cells) == 0 {
					continue
				}
				if inHead {
					head = append(head, row)
				} else {
					body = append(body, row)
				}
			default:
				walk(c, inHead)
			}
		}
	}
	walk(table, false)
	return head, body
}

func readRow(tr *html.Node) htmlRow {
	row := htmlRow{allHeader: true}
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.DataAtom != atom.Td && c.DataAtom != atom.Th) {
			continue
		}
		if c.DataAtom == atom.Td {
			row.allHeader = false
		}
		row.cells = append(row.cells, htmlCell{
			text:    strings.Join(strings.Fields(textOf(c)), " "),
			colspan: spanAttr(c, "colspan"),
			rowspan: spanAttr(c, "rowspan"),
		})
	}
	return row
}

func textOf(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Br {
			sb.WriteString(" ")
			continue
		}
		sb.WriteString(textOf(c))
	}
	return sb.String()
}

func spanAttr(n *html.Node, name string) int {
	for _, a := range n.Attr {
		if a.Key == name {
			if v, err := strconv.Atoi(strings.TrimSpace(a.Val)); err == nil && v > 0 {
				return v
			}
		}
	}
	return 1
}

// expandSpans lays rows out on a grid, repeating the text of spanning cells.
func expandSpans(rows []htmlRow) [][]string {
	type pending struct {
		text string
		left int
	}
	carry := map[int]*pending{}
	grid := make([][]string, len(rows))
	for i, row := range rows {
		var out []string
		col := 0
		fill := func() {
			for {
				p, ok := carry[col]
				if !ok || p.left == 0 {
					return
				}
				out = append(out, p.text)
				p.left--
				col++
			}
		}
		for _, cell := range row.cells {
			fill()
			for k := 0; k < cell.colspan; k++ {
				out = append(out, cell.text)
				if cell.rowspan > 1 {
					carry[col] = &pending{text: cell.text, left: cell.rowspan - 1}
				}
				col++
			}
		}
		fill()
		grid[i] = out
	}
	return grid
}
