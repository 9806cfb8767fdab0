package table

// convert.go turns raw CSV fields into typed cell values and back.
//
// Inference is cell-by-cell, the way a dataframe loader treats an untyped
// text file:
//   - empty fields and the usual null markers ("NA", "NaN", "NULL", ...) are nil
//   - integer literals become int64
//   - decimal and scientific literals become float64
//   - everything else stays a string

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numericRegex matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

var integerRegex = regexp.MustCompile(`^[+-]?\d+$`)

// nullMarkers are field values read as null in addition to the empty string.
var nullMarkers = map[string]struct{}{
	"#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {},
	"N/A": {}, "NA": {}, "NULL": {}, "NaN": {}, "None": {},
	"n/a": {}, "nan": {}, "null": {},
}

// Infer converts a raw field to a typed cell value.
func Infer(s string) any {
	if s == "" {
		return nil
	}
	if _, ok := nullMarkers[s]; ok {
		return nil
	}

	trimmed := strings.TrimSpace(s)
	if !numericRegex.MatchString(trimmed) {
		return s
	}

	if integerRegex.MatchString(trimmed) {
		if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return i
		}
		// Out of int64 range: fall through to float.
	}

	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return s
	}
	return f
}

// IsNull reports whether v is a null marker.
func IsNull(v any) bool {
	if v == nil {
		return true
	}
	if f, ok := v.(float64); ok && math.IsNaN(f) {
		return true
	}
	return false
}

// IsNumeric reports whether v holds a number.
func IsNumeric(v any) bool {
	switch x := v.(type) {
	case int64:
		return true
	case float64:
		return !math.IsNaN(x)
	}
	return false
}

// FormatValue renders a cell value as a CSV field.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return formatFloat(x)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

// formatFloat writes the shortest decimal that parses back to f, so "2.0"
// read from a file is written as "2".
func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e21) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
