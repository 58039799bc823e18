package qr

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/brandqr/pkg/errors"
)

func TestNewMatrix(t *testing.T) {
	tests := []struct {
		name    string
		rows    [][]bool
		wantErr bool
	}{
		{"single", [][]bool{{true}}, false},
		{"square", [][]bool{{true, false}, {false, true}}, false},
		{"empty", nil, true},
		{"ragged", [][]bool{{true, false}, {true}}, true},
		{"wide", [][]bool{{true, false, true}, {true, false, true}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMatrix(tt.rows)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewMatrix() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("NewMatrix() code = %v, want INVALID_INPUT", errors.GetCode(err))
			}
		})
	}
}

func TestMatrixCopiesInput(t *testing.T) {
	rows := [][]bool{{true, false}, {false, false}}
	m := MustMatrix(rows)
	rows[0][0] = false

	if !m.Module(0, 0) {
		t.Error("Matrix should not alias the input rows")
	}

	out := m.Rows()
	out[1][1] = true
	if m.Module(1, 1) {
		t.Error("Rows() should return a copy")
	}
}

func TestMatrixAccessors(t *testing.T) {
	m, err := ParseMatrix(`
		#..
		.#.
		..#
	`)
	if err != nil {
		t.Fatalf("ParseMatrix: %v", err)
	}
	if m.Size() != 3 {
		t.Errorf("Size() = %d, want 3", m.Size())
	}
	if m.Dark() != 3 {
		t.Errorf("Dark() = %d, want 3", m.Dark())
	}
	if !m.Module(2, 2) || m.Module(1, 0) {
		t.Error("Module() returned wrong values")
	}
	if m.Module(-1, 0) || m.Module(3, 0) {
		t.Error("out-of-range modules should be light")
	}
	if got, want := m.String(), "#..\n.#.\n..#\n"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if !m.Equal(MustMatrix(m.Rows())) {
		t.Error("Equal() should be true for a copy")
	}
	if _, err := ParseMatrix("#x\n.."); err == nil {
		t.Error("ParseMatrix should reject unknown characters")
	}
}

func TestParseECCLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    ECCLevel
		wantErr bool
	}{
		{"L", Low, false},
		{"low", Low, false},
		{"M", Medium, false},
		{"medium", Medium, false},
		{"q", Quartile, false},
		{"QUARTILE", Quartile, false},
		{" H ", High, false},
		{"high", High, false},
		{"", Medium, true},
		{"X", Medium, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseECCLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseECCLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseECCLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestECCLevelRoundTrip(t *testing.T) {
	for _, l := range Levels {
		if got := ParseECCLevelOr(l.String(), Low); got != l {
			t.Errorf("ParseECCLevelOr(%q) = %v, want %v", l.String(), got, l)
		}
		if got := ParseECCLevelOr(l.Letter(), Low); got != l {
			t.Errorf("ParseECCLevelOr(%q) = %v, want %v", l.Letter(), got, l)
		}
		b, _ := l.MarshalText()
		var back ECCLevel
		if err := back.UnmarshalText(b); err != nil || back != l {
			t.Errorf("text round trip of %v = %v, %v", l, back, err)
		}
	}
	if ParseECCLevelOr("bogus", High) != High {
		t.Error("ParseECCLevelOr should return the fallback for unknown input")
	}
	if High.Next() != Low || Low.Next() != Medium {
		t.Error("Next() should cycle L→M→Q→H→L")
	}
}

func TestSkip2Encoder(t *testing.T) {
	ctx := context.Background()
	enc := NewSkip2Encoder()

	m, err := enc.Encode(ctx, "https://example.com", Medium)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	n := m.Size()
	if n < 21 || (n-17)%4 != 0 {
		t.Errorf("Size() = %d, want a QR version size (17+4v)", n)
	}
	// finder pattern corners are dark
	for _, p := range [][2]int{{0, 0}, {n - 1, 0}, {0, n - 1}} {
		if !m.Module(p[0], p[1]) {
			t.Errorf("module %v should be dark (finder pattern)", p)
		}
	}

	high, err := enc.Encode(ctx, "https://example.com", High)
	if err != nil {
		t.Fatalf("Encode HIGH: %v", err)
	}
	if high.Size() < n {
		t.Errorf("HIGH size %d should not be smaller than MEDIUM size %d", high.Size(), n)
	}
}

func TestSkip2EncoderTooLong(t *testing.T) {
	_, err := NewSkip2Encoder().Encode(context.Background(), strings.Repeat("x", 4000), High)
	if !errors.Is(err, errors.ErrCodeEncode) {
		t.Errorf("Encode() error = %v, want ENCODE_FAILED", err)
	}
}

func TestSkip2EncoderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewSkip2Encoder().Encode(ctx, "x", Low); err != context.Canceled {
		t.Errorf("Encode() error = %v, want context.Canceled", err)
	}
}

func TestEncoderFunc(t *testing.T) {
	var gotLevel ECCLevel
	enc := EncoderFunc(func(_ context.Context, text string, level ECCLevel) (Matrix, error) {
		gotLevel = level
		return MustMatrix([][]bool{{true}}), nil
	})
	m, err := enc.Encode(context.Background(), "x", Quartile)
	if err != nil || m.Size() != 1 || gotLevel != Quartile {
		t.Errorf("EncoderFunc passthrough failed: %v %d %v", err, m.Size(), gotLevel)
	}
}
