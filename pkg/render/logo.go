package render

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/brandqr/pkg/errors"
)

// svgDoc is what ToPNG needs from the SVG beyond what oksvg draws.
type svgDoc struct {
	background string
	images     []svgImage

	// The background rect and module path, when they lead the document in
	// the shape RenderSVG writes them. ToPNG fills them itself and cuts
	// their spans from what oksvg sees.
	backRect   *Rect
	backFill   color.Color
	modules    []Rect
	moduleFill color.Color
	spans      [][2]int64
}

type svgImage struct {
	box  Rect
	href string
}

// scanSVG finds the background fill (first rect) and every <image> element.
// oksvg skips <image>, so logos are drawn separately. A leading background
// rect and module path are captured with their byte spans.
func scanSVG(svg []byte) (svgDoc, error) {
	var doc svgDoc
	seenRect, seenPath := false, false
	leading := true
	dec := xml.NewDecoder(bytes.NewReader(svg))
	dec.Strict = false
	for {
		start := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			return doc, nil
		}
		if err != nil {
			return doc, err
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local == "svg" {
			continue
		}

		captured := false
		switch se.Name.Local {
		case "rect":
			if !seenRect {
				seenRect = true
				doc.background = attr(se, "fill")
				if leading && onlyAttrs(se, "x", "y", "width", "height", "fill") {
					r := Rect{X: attrFloat(se, "x"), Y: attrFloat(se, "y"), W: attrFloat(se, "width"), H: attrFloat(se, "height")}
					if c, err := ParseColor(doc.background); err == nil && r.W > 0 && r.H > 0 {
						doc.backRect, doc.backFill, captured = &r, c, true
					}
				}
			}
		case "path":
			if !seenPath {
				seenPath = true
				if leading && onlyAttrs(se, "d", "fill") {
					sq, err := pathSquares(attr(se, "d"))
					c, cerr := ParseColor(attr(se, "fill"))
					if err == nil && cerr == nil {
						doc.modules, doc.moduleFill, captured = sq, c, true
					}
				}
			}
		case "image":
			doc.images = append(doc.images, svgImage{
				box: Rect{
					X: attrFloat(se, "x"), Y: attrFloat(se, "y"),
					W: attrFloat(se, "width"), H: attrFloat(se, "height"),
				},
				href: attr(se, "href"),
			})
		}
		if !captured {
			leading = false
			continue
		}
		if err := dec.Skip(); err != nil {
			return doc, err
		}
		doc.spans = append(doc.spans, [2]int64{start, dec.InputOffset()})
	}
}

// residual returns svg without the spans ToPNG fills itself.
func (d svgDoc) residual(svg []byte) []byte {
	if len(d.spans) == 0 {
		return svg
	}
	out := make([]byte, 0, len(svg))
	last := int64(0)
	for _, sp := range d.spans {
		out = append(out, svg[last:sp[0]]...)
		last = sp[1]
	}
	return append(out, svg[last:]...)
}

func onlyAttrs(se xml.StartElement, names ...string) bool {
	for _, a := range se.Attr {
		if !slices.Contains(names, a.Name.Local) {
			return false
		}
	}
	return true
}

func attrFloat(se xml.StartElement, name string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSuffix(attr(se, name), "px"), 64)
	return v
}

// drawLogo decodes an embedded logo and draws it into box scaled by s, fitted
// and centered like preserveAspectRatio="xMidYMid meet". Scaling uses
// nearest-neighbour sampling only.
func drawLogo(dst *image.RGBA, im svgImage, s float64) error {
	if im.box.W <= 0 || im.box.H <= 0 {
		return nil
	}
	target := image.Rect(
		int(math.Round(im.box.X*s)), int(math.Round(im.box.Y*s)),
		int(math.Round((im.box.X+im.box.W)*s)), int(math.Round((im.box.Y+im.box.H)*s)),
	)

	mime, data, err := DecodeDataURL(im.href)
	if err != nil {
		return err
	}

	var logo image.Image
	if mime == "image/svg+xml" {
		logo, err = rasterizeSVG(data, target.Dx(), target.Dy())
	} else {
		logo, err = decodeLogo(data)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeExport, err, "decode logo (%s)", mime)
	}

	xdraw.NearestNeighbor.Scale(dst, fit(target, logo.Bounds()), logo, logo.Bounds(), xdraw.Over, nil)
	return nil
}

// MaxLogoPixels bounds the declared size of a bitmap logo.
const MaxLogoPixels = 1 << 24

// decodeLogo reads the header first and refuses images whose declared size
// exceeds MaxLogoPixels.
func decodeLogo(data []byte) (image.Image, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxLogoPixels {
		return nil, errors.New(errors.ErrCodeExport, "%s logo is %dx%d pixels, limit is %d pixels", format, cfg.Width, cfg.Height, MaxLogoPixels)
	}
	logo, _, err := image.Decode(bytes.NewReader(data))
	return logo, err
}

// fit returns the largest rect with src's aspect ratio centered in box.
func fit(box, src image.Rectangle) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	if sw <= 0 || sh <= 0 {
		return box
	}
	bw, bh := box.Dx(), box.Dy()
	w, h := bw, bh
	if sw*bh > sh*bw {
		h = int(math.Round(float64(bw) * float64(sh) / float64(sw)))
	} else {
		w = int(math.Round(float64(bh) * float64(sw) / float64(sh)))
	}
	x := box.Min.X + (bw-w)/2
	y := box.Min.Y + (bh-h)/2
	return image.Rect(x, y, x+w, y+h)
}

func rasterizeSVG(data []byte, w, h int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	icon.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)
	return img, nil
}

// DecodeDataURL splits a data:image URL into its media type and payload.
// Only image media types are accepted.
func DecodeDataURL(s string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, errors.New(errors.ErrCodeExport, "logo is not a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errors.New(errors.ErrCodeExport, "data URL has no payload")
	}

	params := strings.Split(meta, ";")
	mime := strings.ToLower(strings.TrimSpace(params[0]))
	if !strings.HasPrefix(mime, "image/") {
		return "", nil, errors.New(errors.ErrCodeExport, "unsupported logo type %q", mime)
	}

	isBase64 := false
	for _, p := range params[1:] {
		if strings.EqualFold(strings.TrimSpace(p), "base64") {
			isBase64 = true
		}
	}

	if !isBase64 {
		raw, err := url.PathUnescape(payload)
		if err != nil {
			return "", nil, errors.Wrap(errors.ErrCodeExport, err, "decode data URL")
		}
		return mime, []byte(raw), nil
	}

	payload = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\n' || r == '\r' || r == '\t' {
			return -1
		}
		return r
	}, payload)
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
	}
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrCodeExport, err, "decode base64 logo")
	}
	return mime, data, nil
}
