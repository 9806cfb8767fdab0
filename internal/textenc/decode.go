package textenc

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/transform"
)

// InvalidBytesError reports a byte sequence a candidate cannot decode.
type InvalidBytesError struct {
	Encoding string
	Offset   int // offset into the input for UTF-8, into the decoded text otherwise
}

func (e *InvalidBytesError) Error() string {
	return fmt.Sprintf("encoding error: invalid %s byte sequence at offset %d", e.Encoding, e.Offset)
}

// Decode converts data to UTF-8 text using c, failing on the first byte
// sequence that is not valid in that encoding. A leading UTF-8 BOM is dropped
// when decoding UTF-8.
//
// The x/text decoders substitute U+FFFD for invalid input rather than failing,
// so for non-UTF-8 candidates any U+FFFD in the output counts as a failure.
func Decode(c Candidate, data []byte) (string, error) {
	if c.IsUTF8() {
		if HasBOM(data) {
			data = data[3:]
		}
		if off := invalidUTF8Offset(data); off >= 0 {
			return "", &InvalidBytesError{Encoding: c.Name, Offset: off}
		}
		return string(data), nil
	}

	out, _, err := transform.Bytes(c.Encoding.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", c.Name, err)
	}
	for i, r := range string(out) {
		if r == utf8.RuneError {
			return "", &InvalidBytesError{Encoding: c.Name, Offset: i}
		}
	}
	return string(out), nil
}

// invalidUTF8Offset returns the offset of the first invalid sequence, or -1.
func invalidUTF8Offset(data []byte) int {
	if utf8.Valid(data) {
		return -1
	}
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}
