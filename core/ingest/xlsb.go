package ingest

import (
	"archive/zip"
	"bufio"
	"encoding/binary"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"path"
	"strconv"
	"strings"
	"unicode/utf16"

	"data-reconciler/core/dataset"
)

// BIFF12 record types read by the binary workbook engine.
const (
	brtRowHdr        = 0
	brtCellBlank     = 1
	brtCellRk        = 2
	brtCellError     = 3
	brtCellBool      = 4
	brtCellReal      = 5
	brtCellSt        = 6
	brtCellIsst      = 7
	brtFmlaString    = 8
	brtFmlaNum       = 9
	brtFmlaBool      = 10
	brtFmlaError     = 11
	brtSSTItem       = 19
	brtBundleSh      = 156
	defaultXLSBSheet = "xl/worksheets/sheet1.bin"
)

// LoadBinaryWorkbook reads the first sheet of a binary workbook (.xlsb).
func LoadBinaryWorkbook(p string) (*dataset.Dataset, error) {
	zr, err := zip.OpenReader(p)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	sheetPath, err := firstSheetPath(files)
	if err != nil {
		return nil, err
	}
	sheet, ok := files[sheetPath]
	if !ok {
		return nil, fmt.Errorf("worksheet %s not found in workbook", sheetPath)
	}

	var sst []string
	if f, ok := files["xl/sharedStrings.bin"]; ok {
		if sst, err = readSharedStrings(f); err != nil {
			return nil, fmt.Errorf("shared strings: %w", err)
		}
	}

	grid, err := readBinarySheet(sheet, sst)
	if err != nil {
		return nil, fmt.Errorf("worksheet %s: %w", sheetPath, err)
	}
	return fromGrid(p, grid)
}

// recordReader walks the record stream of a BIFF12 part.
type recordReader struct {
	r *bufio.Reader
}

func newRecordReader(r io.Reader) *recordReader {
	return &recordReader{r: bufio.NewReader(r)}
}

// next returns the next record type and payload, or io.EOF.
func (rr *recordReader) next() (int, []byte, error) {
	typ, err := rr.varint(2)
	if err != nil {
		return 0, nil, err
	}
	size, err := rr.varint(4)
	if err != nil {
		return 0, nil, io.ErrUnexpectedEOF
	}
	data := make([]byte, size)
	if _, err := io.ReadFull(rr.r, data); err != nil {
		return 0, nil, io.ErrUnexpectedEOF
	}
	return typ, data, nil
}

func (rr *recordReader) varint(maxBytes int) (int, error) {
	v := 0
	for i := 0; i < maxBytes; i++ {
		b, err := rr.r.ReadByte()
		if err != nil {
			return 0, err
		}
		v |= int(b&0x7f) << (7 * i)
		if b&0x80 == 0 {
			break
		}
	}
	return v, nil
}

// wideString decodes an XLWideString (length-prefixed UTF-16LE) at the start of
// data and returns it with the number of bytes consumed.
func wideString(data []byte) (string, int, error) {
	if len(data) < 4 {
		return "", 0, io.ErrUnexpectedEOF
	}
	n := binary.LittleEndian.Uint32(data)
	if n == math.MaxUint32 {
		return "", 4, nil
	}
	end := 4 + int(n)*2
	if end > len(data) || end < 4 {
		return "", 0, io.ErrUnexpectedEOF
	}
	units := make([]uint16, n)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(data[4+i*2:])
	}
	return string(utf16.Decode(units)), end, nil
}

func firstSheetPath(files map[string]*zip.File) (string, error) {
	wb, ok := files["xl/workbook.bin"]
	if !ok {
		return defaultXLSBSheet, nil
	}
	rc, err := wb.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	rr := newRecordReader(rc)
	relID := ""
	for {
		typ, data, err := rr.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("workbook: %w", err)
		}
		if typ != brtBundleSh || len(data) < 8 {
			continue
		}
		relID, _, err = wideString(data[8:])
		if err != nil {
			return "", fmt.Errorf("workbook sheet entry: %w", err)
		}
		break
	}
	if relID == "" {
		return defaultXLSBSheet, nil
	}

	rels, ok := files["xl/_rels/workbook.bin.rels"]
	if !ok {
		return defaultXLSBSheet, nil
	}
	target, err := relationshipTarget(rels, relID)
	if err != nil || target == "" {
		return defaultXLSBSheet, err
	}
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/"), nil
	}
	return path.Join("xl", target), nil
}

func relationshipTarget(f *zip.File, id string) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	var rels struct {
		Relationships []struct {
			ID     string `xml:"Id,attr"`
			Target string `xml:"Target,attr"`
		} `xml:"Relationship"`
	}
	if err := xml.NewDecoder(rc).Decode(&rels); err != nil {
		return "", fmt.Errorf("workbook relationships: %w", err)
	}
	for _, r := range rels.Relationships {
		if r.ID == id {
			return r.Target, nil
		}
	}
	return "", nil
}

func readSharedStrings(f *zip.File) ([]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var out []string
	rr := newRecordReader(rc)
	for {
		typ, data, err := rr.next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		if typ != brtSSTItem || len(data) < 1 {
			continue
		}
		s, _, err := wideString(data[1:])
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
}

func readBinarySheet(f *zip.File, sst []string) ([][]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	cells := map[int]map[int]string{}
	row, maxRow := -1, -1
	rr := newRecordReader(rc)
	for {
		typ, data, err := rr.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if typ == brtRowHdr {
			if len(data) < 4 {
				return nil, io.ErrUnexpectedEOF
			}
			row = int(binary.LittleEndian.Uint32(data))
			continue
		}
		if typ < brtCellBlank || typ > brtFmlaError || row < 0 {
			continue
		}
		if len(data) < 8 {
			return nil, io.ErrUnexpectedEOF
		}
		col := int(binary.LittleEndian.Uint32(data))
		text, err := cellText(typ, data[8:], sst)
		if err != nil {
			return nil, fmt.Errorf("cell R%dC%d: %w", row+1, col+1, err)
		}
		if cells[row] == nil {
			cells[row] = map[int]string{}
		}
		cells[row][col] = text
		maxRow = max(maxRow, row)
	}

	grid := make([][]string, maxRow+1)
	for r, byCol := range cells {
		width := 0
		for c := range byCol {
			width = max(width, c+1)
		}
		line := make([]string, width)
		for c, v := range byCol {
			line[c] = v
		}
		grid[r] = line
	}
	return grid, nil
}

func cellText(typ int, data []byte, sst []string) (string, error) {
	switch typ {
	case brtCellBlank, brtCellError, brtFmlaError:
		return "", nil
	case brtCellRk:
		if len(data) < 4 {
			return "", io.ErrUnexpectedEOF
		}
		return formatNumber(decodeRK(binary.LittleEndian.Uint32(data))), nil
	case brtCellBool, brtFmlaBool:
		if len(data) < 1 {
			return "", io.ErrUnexpectedEOF
		}
		return strconv.FormatBool(data[0] != 0), nil
	case brtCellReal, brtFmlaNum:
		if len(data) < 8 {
			return "", io.ErrUnexpectedEOF
		}
		return formatNumber(math.Float64frombits(binary.LittleEndian.Uint64(data))), nil
	case brtCellSt, brtFmlaString:
		s, _, err := wideString(data)
		return s, err
	case brtCellIsst:
		if len(data) < 4 {
			return "", io.ErrUnexpectedEOF
		}
		idx := int(binary.LittleEndian.Uint32(data))
		if idx >= len(sst) {
			return "", fmt.Errorf("shared string %d out of range", idx)
		}
		return sst[idx], nil
	}
	return "", nil
}

// decodeRK expands the 30-bit compressed number format of RK cells.
func decodeRK(rk uint32) float64 {
	var v float64
	if rk&0x02 != 0 {
		v = float64(int32(rk) >> 2)
	} else {
		v = math.Float64frombits(uint64(rk&0xFFFFFFFC) << 32)
	}
	if rk&0x01 != 0 {
		v /= 100
	}
	return v
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
