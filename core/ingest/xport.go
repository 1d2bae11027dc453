package ingest

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"data-reconciler/core/dataset"
)

// SAS transport files are sequences of 80-byte card images.
const (
	xptCard        = 80
	xptLibrary     = "HEADER RECORD*******LIBRARY HEADER RECORD!!!!!!!"
	xptMember      = "HEADER RECORD*******MEMBER  HEADER RECORD!!!!!!!"
	xptNamestr     = "HEADER RECORD*******NAMESTR HEADER RECORD!!!!!!!"
	xptObs         = "HEADER RECORD*******OBS     HEADER RECORD!!!!!!!"
	xptNumeric     = 1
	xptDefaultDesc = 140
)

type xptVariable struct {
	name    string
	numeric bool
	length  int
	offset  int
}

// LoadXPORT reads the first member of a SAS transport (XPORT v5) file.
func LoadXPORT(path string) (*dataset.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	vars, rows, err := parseXPORT(data)
	if err != nil {
		return nil, err
	}

	cols := make([]*dataset.Column, len(vars))
	for j, v := range vars {
		values := make([]any, len(rows))
		for i, row := range rows {
			field := row[v.offset : v.offset+v.length]
			if v.numeric {
				if f, ok := ibmFloat(field); ok {
					values[i] = f
				}
				continue
			}
			if s := strings.TrimRight(string(field), " \x00"); s != "" {
				values[i] = s
			}
		}
		kind := dataset.KindString
		if v.numeric {
			kind = dataset.KindFloat
		}
		cols[j] = dataset.NewColumn(v.name, kind, values)
	}
	return dataset.New(filepath.Base(path), cols...)
}

func parseXPORT(data []byte) ([]xptVariable, [][]byte, error) {
	if len(data) < xptCard || !bytes.HasPrefix(data, []byte(xptLibrary)) {
		return nil, nil, fmt.Errorf("not a SAS transport file")
	}

	member := bytes.Index(data, []byte(xptMember))
	if member < 0 {
		return nil, nil, fmt.Errorf("member header not found")
	}
	descLen := xptDefaultDesc
	if member+78 <= len(data) {
		if n, err := strconv.Atoi(strings.TrimSpace(string(data[member+74 : member+78]))); err == nil && n > 0 {
			descLen = n
		}
	}

	ns := bytes.Index(data[member:], []byte(xptNamestr))
	if ns < 0 {
		return nil, nil, fmt.Errorf("namestr header not found")
	}
	ns += member
	if ns+xptCard > len(data) {
		return nil, nil, fmt.Errorf("truncated namestr header")
	}
	count, err := strconv.Atoi(strings.TrimLeft(string(data[ns+54:ns+58]), "0 "))
	if err != nil {
		count = 0
	}

	start := ns + xptCard
	end := start + count*descLen
	if end > len(data) {
		return nil, nil, fmt.Errorf("truncated variable descriptors")
	}
	vars := make([]xptVariable, count)
	rowLen := 0
	for i := range vars {
		d := data[start+i*descLen : start+(i+1)*descLen]
		vars[i] = xptVariable{
			name:    strings.TrimRight(string(d[8:16]), " \x00"),
			numeric: binary.BigEndian.Uint16(d[0:2]) == xptNumeric,
			length:  int(binary.BigEndian.Uint16(d[4:6])),
			offset:  int(binary.BigEndian.Uint32(d[84:88])),
		}
		if vars[i].numeric && (vars[i].length < 2 || vars[i].length > 8) {
			return nil, nil, fmt.Errorf("variable %s has invalid numeric length %d", vars[i].name, vars[i].length)
		}
		rowLen = max(rowLen, vars[i].offset+vars[i].length)
	}

	obs := bytes.Index(data[end:], []byte(xptObs))
	if obs < 0 {
		return nil, nil, fmt.Errorf("observation header not found")
	}
	body := data[end+obs+xptCard:]
	if next := bytes.Index(body, []byte(xptMember)); next >= 0 {
		body = body[:next]
	}

	var rows [][]byte
	if rowLen > 0 {
		for off := 0; off+rowLen <= len(body); off += rowLen {
			rows = append(rows, body[off:off+rowLen])
		}
	}
	// The last card is padded with blanks; padding is indistinguishable from rows
	// of blank values, which are dropped as well.
	for len(rows) > 0 && len(bytes.TrimRight(rows[len(rows)-1], " ")) == 0 {
		rows = rows[:len(rows)-1]
	}
	return vars, rows, nil
}

// ibmFloat decodes a big-endian IBM System/360 floating point number of 2 to 8
// bytes. The second result is false for SAS missing values.
func ibmFloat(b []byte) (float64, bool) {
	var buf [8]byte
	copy(buf[:], b)

	rest := uint64(0)
	for _, c := range buf[1:] {
		rest |= uint64(c)
	}
	if rest == 0 {
		switch c := buf[0]; {
		case c == 0:
			return 0, true
		case c == '.' || c == '_' || (c >= 'A' && c <= 'Z'):
			return 0, false
		}
	}

	frac := binary.BigEndian.Uint64(buf[:]) & 0x00FFFFFFFFFFFFFF
	exp := int(buf[0]&0x7f) - 64
	v := math.Ldexp(float64(frac), 4*exp-56)
	if buf[0]&0x80 != 0 {
		v = -v
	}
	return v, true
}
