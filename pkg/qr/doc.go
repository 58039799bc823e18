// Package qr defines the boundary between brandqr and the QR symbol encoder.
//
// The renderer never encodes anything itself. It consumes a [Matrix], a square
// grid of dark/light modules, produced by an [Encoder]. The default encoder
// wraps github.com/skip2/go-qrcode; tests use [EncoderFunc] with synthetic
// matrices.
//
//	enc := qr.NewSkip2Encoder()
//	m, err := enc.Encode(ctx, "https://example.com", qr.Medium)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(m.Size()) // 25
package qr
