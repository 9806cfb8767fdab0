// Package textenc resolves text encodings by name and decodes byte buffers
// strictly, so that a wrong guess surfaces as an error instead of mojibake.
//
// Candidates are looked up through the WHATWG label table in
// golang.org/x/net/html/charset, extended with the code page names that
// spreadsheet tooling tends to use (cp949, ms949, ...).
package textenc

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"
)

// ErrUnknownEncoding is returned when an encoding name cannot be resolved.
var ErrUnknownEncoding = errors.New("unknown encoding")

// Candidate is one encoding in a fallback list.
type Candidate struct {
	Name      string // name as configured, e.g. "cp949"
	Canonical string // canonical WHATWG name, e.g. "euc-kr"
	Encoding  encoding.Encoding
}

// String returns the configured name.
func (c Candidate) String() string {
	return c.Name
}

// IsUTF8 reports whether the candidate decodes UTF-8.
func (c Candidate) IsUTF8() bool {
	return c.Canonical == "utf-8"
}

// UTF8 is the universal candidate.
var UTF8 = Candidate{Name: "utf-8", Canonical: "utf-8", Encoding: unicode.UTF8}

// CP949 is the legacy Korean candidate (Unified Hangul Code, a superset of EUC-KR).
var CP949 = Candidate{Name: "cp949", Canonical: "euc-kr", Encoding: korean.EUCKR}

// Default returns the standard fallback order: UTF-8 first, then CP949.
func Default() []Candidate {
	return []Candidate{UTF8, CP949}
}

// aliases maps code page names the WHATWG table does not carry to a label it does.
var aliases = map[string]string{
	"cp949":  "windows-949",
	"cp-949": "windows-949",
	"ms949":  "windows-949",
	"uhc":    "windows-949",
	"cp932":  "shift_jis",
	"ms932":  "shift_jis",
	"sjis":   "shift_jis",
	"cp936":  "gbk",
	"latin1": "iso-8859-1",
}

// Lookup resolves an encoding name to a Candidate.
func Lookup(name string) (Candidate, error) {
	label := strings.ToLower(strings.TrimSpace(name))
	if label == "" {
		return Candidate{}, fmt.Errorf("%w: empty name", ErrUnknownEncoding)
	}
	if alias, ok := aliases[label]; ok {
		label = alias
	}

	enc, canonical := charset.Lookup(label)
	if enc == nil {
		return Candidate{}, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	return Candidate{Name: strings.TrimSpace(name), Canonical: canonical, Encoding: enc}, nil
}

// ParseList resolves a list of names in order. Duplicates (by canonical name)
// are dropped after their first occurrence.
func ParseList(names []string) ([]Candidate, error) {
	var out []Candidate
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		c, err := Lookup(n)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[c.Canonical]; dup {
			continue
		}
		seen[c.Canonical] = struct{}{}
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no candidates given", ErrUnknownEncoding)
	}
	return out, nil
}

// Names returns the configured names of candidates.
func Names(cands []Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Name
	}
	return out
}
