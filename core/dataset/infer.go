package dataset

import (
	"strconv"
	"strings"
	"time"
)

// naValues are the text markers read as missing, matching what common tabular
// tools treat as not-available.
var naValues = map[string]struct{}{
	"": {}, "NA": {}, "N/A": {}, "n/a": {}, "NaN": {}, "nan": {}, "-NaN": {}, "-nan": {},
	"NULL": {}, "null": {}, "None": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "<NA>": {},
	"1.#QNAN": {}, "-1.#QNAN": {}, "1.#IND": {}, "-1.#IND": {},
}

// timeLayouts are tried in order when inferring datetime columns.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.DateTime,
	time.DateOnly,
	"2006-01-02T15:04:05",
	"2006/01/02",
}

// IsNA reports whether s is one of the missing-value markers.
func IsNA(s string) bool {
	_, ok := naValues[s]
	return ok
}

// InferColumn builds a column from raw text cells. The whole column is inspected
// before a kind is chosen: the narrowest of int, float, bool, datetime and string
// that parses every non-missing cell wins.
func InferColumn(name string, raw []string) *Column {
	present := make([]bool, len(raw))
	hasValue := false
	for i, s := range raw {
		if !IsNA(s) {
			present[i] = true
			hasValue = true
		}
	}

	values := make([]any, len(raw))
	if !hasValue {
		return &Column{Name: name, Kind: KindString, Values: values}
	}

	if parseAll(raw, present, values, parseInt) {
		return &Column{Name: name, Kind: KindInt, Values: values}
	}
	if parseAll(raw, present, values, parseFloat) {
		return &Column{Name: name, Kind: KindFloat, Values: values}
	}
	if parseAll(raw, present, values, parseBool) {
		return &Column{Name: name, Kind: KindBool, Values: values}
	}
	if parseAll(raw, present, values, ParseTime) {
		return &Column{Name: name, Kind: KindTime, Values: values}
	}

	for i, s := range raw {
		if present[i] {
			values[i] = s
		} else {
			values[i] = nil
		}
	}
	return &Column{Name: name, Kind: KindString, Values: values}
}

func parseAll[T any](raw []string, present []bool, out []any, parse func(string) (T, bool)) bool {
	for i, s := range raw {
		if !present[i] {
			out[i] = nil
			continue
		}
		v, ok := parse(s)
		if !ok {
			return false
		}
		out[i] = v
	}
	return true
}

func parseInt(s string) (int64, bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return v, err == nil
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v, err == nil
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

// ParseTime parses s with the supported datetime layouts.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	// Bare numbers are never dates.
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// UniqueNames makes header names usable as column names: blanks become
// "Unnamed: <i>" and repeated names get ".1", ".2" suffixes.
func UniqueNames(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		if strings.TrimSpace(n) == "" {
			n = "Unnamed: " + strconv.Itoa(i)
		}
		out[i] = n
	}
	taken := make(map[string]bool, len(out))
	for _, n := range out {
		taken[n] = true
	}
	seen := make(map[string]int, len(out))
	for i, n := range out {
		k, dup := seen[n]
		if !dup {
			seen[n] = 0
			continue
		}
		for {
			k++
			candidate := n + "." + strconv.Itoa(k)
			if !taken[candidate] {
				out[i] = candidate
				taken[candidate] = true
				break
			}
		}
		seen[n] = k
	}
	return out
}
