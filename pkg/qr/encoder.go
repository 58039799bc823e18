package qr

import (
	"context"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/matzehuels/brandqr/pkg/errors"
)

// Encoder turns text into a module matrix at the given error correction level.
type Encoder interface {
	Encode(ctx context.Context, text string, level ECCLevel) (Matrix, error)
}

// EncoderFunc adapts a function to the Encoder interface.
type EncoderFunc func(ctx context.Context, text string, level ECCLevel) (Matrix, error)

func (f EncoderFunc) Encode(ctx context.Context, text string, level ECCLevel) (Matrix, error) {
	return f(ctx, text, level)
}

// Skip2Encoder encodes with github.com/skip2/go-qrcode. The quiet zone is
// left to the renderer, so the library border is disabled.
type Skip2Encoder struct{}

// NewSkip2Encoder returns the default encoder.
func NewSkip2Encoder() Skip2Encoder { return Skip2Encoder{} }

func (Skip2Encoder) Encode(ctx context.Context, text string, level ECCLevel) (Matrix, error) {
	if err := ctx.Err(); err != nil {
		return Matrix{}, err
	}
	if !level.Valid() {
		return Matrix{}, errors.New(errors.ErrCodeInvalidInput, "invalid error correction level %d", int(level))
	}
	code, err := qrcode.New(text, recoveryLevel(level))
	if err != nil {
		return Matrix{}, errors.Wrap(errors.ErrCodeEncode, err, "encode %d bytes at level %s", len(text), level)
	}
	code.DisableBorder = true
	return NewMatrix(code.Bitmap())
}

func recoveryLevel(l ECCLevel) qrcode.RecoveryLevel {
	switch l {
	case Low:
		return qrcode.Low
	case Quartile:
		return qrcode.High
	case High:
		return qrcode.Highest
	}
	return qrcode.Medium
}

var _ Encoder = Skip2Encoder{}
