package ingest

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"data-reconciler/core/dataset"
)

// maxRepeat bounds repeated rows and cells that carry content. Blank repeats are
// only materialized when followed by content, so trailing filler costs nothing.
const maxRepeat = 1 << 20

// LoadOpenDocument reads the first table of an OpenDocument spreadsheet (.ods).
func LoadOpenDocument(path string) (*dataset.Dataset, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != "content.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		grid, err := readODSTable(rc)
		if err != nil {
			return nil, fmt.Errorf("content.xml: %w", err)
		}
		return fromGrid(path, grid)
	}
	return nil, fmt.Errorf("content.xml not found")
}

type odsCell struct {
	value  string
	repeat int
}

func readODSTable(r io.Reader) ([][]string, error) {
	dec := xml.NewDecoder(r)

	var (
		grid        [][]string
		blankRows   int
		inTable     bool
		row         []odsCell
		rowRepeat   int
		cell        *odsCell
		cellHasType bool
		text        strings.Builder
		paragraphs  []string
		inPara      int
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "table":
				if !inTable && grid == nil {
					inTable = true
				} else if inTable {
					if err := dec.Skip(); err != nil {
						return nil, err
					}
				}
			case "table-row":
				if inTable {
					row = row[:0]
					rowRepeat = repeatAttr(t, "number-rows-repeated")
				}
			case "table-cell", "covered-table-cell":
				if inTable {
					cell = &odsCell{repeat: repeatAttr(t, "number-columns-repeated")}
					cell.value, cellHasType = typedValue(t)
					paragraphs = paragraphs[:0]
				}
			case "p":
				if cell != nil {
					inPara++
					text.Reset()
				}
			case "s":
				if cell != nil && inPara > 0 {
					text.WriteString(strings.Repeat(" ", repeatAttr(t, "c")))
				}
			case "tab":
				if cell != nil && inPara > 0 {
					text.WriteString("\t")
				}
			case "line-break":
				if cell != nil && inPara > 0 {
					text.WriteString("\n")
				}
			}
		case xml.CharData:
			if cell != nil && inPara > 0 {
				text.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if cell != nil && inPara > 0 {
					inPara--
					paragraphs = append(paragraphs, text.String())
				}
			case "table-cell", "covered-table-cell":
				if cell != nil {
					if !cellHasType {
						cell.value = strings.Join(paragraphs, "\n")
					}
					row = append(row, *cell)
					cell = nil
				}
			case "table-row":
				if !inTable {
					continue
				}
				line := expandCells(row)
				if len(line) == 0 {
					blankRows += rowRepeat
					continue
				}
				for ; blankRows > 0; blankRows-- {
					grid = append(grid, nil)
				}
				for k := 0; k < min(rowRepeat, maxRepeat); k++ {
					grid = append(grid, line)
				}
			case "table":
				if inTable {
					if grid == nil {
						grid = [][]string{}
					}
					return grid, nil
				}
			}
		}
	}
	if !inTable {
		return nil, fmt.Errorf("no table found")
	}
	return grid, nil
}

// expandCells applies column repeats. Trailing blank cells are dropped.
func expandCells(cells []odsCell) []string {
	var line []string
	blank := 0
	for _, c := range cells {
		if c.value == "" {
			blank += c.repeat
			continue
		}
		for ; blank > 0; blank-- {
			line = append(line, "")
		}
		for k := 0; k < min(c.repeat, maxRepeat); k++ {
			line = append(line, c.value)
		}
	}
	return line
}

// typedValue returns the value attribute for typed cells. String cells and cells
// without a type report false so their paragraph text is used.
func typedValue(t xml.StartElement) (string, bool) {
	valueType := attr(t, "value-type")
	switch valueType {
	case "float", "percentage", "currency":
		return attr(t, "value"), true
	case "date":
		return attr(t, "date-value"), true
	case "time":
		return attr(t, "time-value"), true
	case "boolean":
		return attr(t, "boolean-value"), true
	}
	return "", false
}

func attr(t xml.StartElement, local string) string {
	for _, a := range t.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func repeatAttr(t xml.StartElement, local string) int {
	if n, err := strconv.Atoi(attr(t, local)); err == nil && n > 0 {
		return n
	}
	return 1
}
