package vector

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"
)

// Wire values are little-endian regardless of host order, matching the
// extension's on-disk layout.
var le = binary.LittleEndian

const (
	// MaxDenseDimensions is the largest dimension a u16 length prefix carries.
	MaxDenseDimensions = math.MaxUint16

	denseHeaderSize  = 2
	sparseHeaderSize = 8
	wordBits         = 64
)

// formatFloat renders f as the shortest decimal that parses back to the same
// value at bitSize precision. Integral values keep a trailing ".0" and the
// exponent form is used only outside [1e-4, 1e16).
func formatFloat(f float64, bitSize int) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	e := strconv.FormatFloat(f, 'e', -1, bitSize)
	exp, err := strconv.Atoi(e[strings.IndexByte(e, 'e')+1:])
	if err == nil && (exp < -4 || exp >= 16) {
		return e
	}
	s := strconv.FormatFloat(f, 'f', -1, bitSize)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// delimited returns the text strictly between the first open and the last
// closing delimiter of s.
func delimited(typ, s string, open, closing byte) (string, error) {
	left := strings.IndexByte(s, open)
	right := strings.LastIndexByte(s, closing)
	if left == -1 || right == -1 || left > right {
		return "", &ParseError{Type: typ, Input: s, Reason: "missing " + string(open) + "..." + string(closing) + " delimiters"}
	}
	return s[left+1 : right], nil
}

// tokens splits a delimited interior on commas; an all-blank interior has no
// tokens.
func tokens(interior string) []string {
	if strings.TrimSpace(interior) == "" {
		return nil
	}
	parts := strings.Split(interior, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseFloat32(typ, input, token string) (float32, error) {
	f, err := strconv.ParseFloat(token, 32)
	if err != nil {
		return 0, &ParseError{Type: typ, Input: input, Reason: "invalid number " + strconv.Quote(token), cause: err}
	}
	return float32(f), nil
}

// denseCount reads the u16 length prefix shared by dense and binary values.
func denseCount(typ string, b []byte) (int, error) {
	if len(b) < denseHeaderSize {
		return 0, truncated(typ, denseHeaderSize, len(b))
	}
	return int(le.Uint16(b)), nil
}

func checkDenseRange(dim int) error {
	if dim > MaxDenseDimensions {
		return &DimensionRangeError{Dim: dim, Max: MaxDenseDimensions}
	}
	return nil
}

func wordCount(dim int) int {
	return (dim + wordBits - 1) / wordBits
}
