package qr

import (
	"strings"

	"github.com/matzehuels/brandqr/pkg/errors"
)

// ECCLevel is the error correction strength requested from the encoder,
// in increasing order of redundancy.
type ECCLevel int

const (
	Low ECCLevel = iota
	Medium
	Quartile
	High
)

// DefaultECC is used when no level, or an unknown one, is given.
const DefaultECC = Medium

// Levels lists all levels in increasing redundancy.
var Levels = []ECCLevel{Low, Medium, Quartile, High}

func (l ECCLevel) String() string {
	switch l {
	case Low:
		return "LOW"
	case Medium:
		return "MEDIUM"
	case Quartile:
		return "QUARTILE"
	case High:
		return "HIGH"
	}
	return "UNKNOWN"
}

// Letter returns the single-letter form (L, M, Q, H).
func (l ECCLevel) Letter() string {
	return l.String()[:1]
}

// Next cycles to the next level, wrapping from HIGH to LOW.
func (l ECCLevel) Next() ECCLevel {
	return (l + 1) % ECCLevel(len(Levels))
}

// Valid reports whether l is one of the four levels.
func (l ECCLevel) Valid() bool {
	return l >= Low && l <= High
}

// ParseECCLevel accepts LOW/MEDIUM/QUARTILE/HIGH or L/M/Q/H in any case.
func ParseECCLevel(s string) (ECCLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "L", "LOW":
		return Low, nil
	case "M", "MEDIUM":
		return Medium, nil
	case "Q", "QUARTILE":
		return Quartile, nil
	case "H", "HIGH":
		return High, nil
	}
	return DefaultECC, errors.New(errors.ErrCodeInvalidInput, "unknown error correction level %q (want L, M, Q or H)", s)
}

// ParseECCLevelOr is ParseECCLevel falling back to def for unknown input.
func ParseECCLevelOr(s string, def ECCLevel) ECCLevel {
	l, err := ParseECCLevel(s)
	if err != nil {
		return def
	}
	return l
}

// MarshalText implements encoding.TextMarshaler.
func (l ECCLevel) MarshalText() ([]byte, error) {
	return []byte(l.Letter()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *ECCLevel) UnmarshalText(b []byte) error {
	v, err := ParseECCLevel(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}
