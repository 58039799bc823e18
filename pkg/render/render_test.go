package render

import (
	"bytes"
	"math/rand"
	"regexp"
	"strings"
	"testing"

	"github.com/matzehuels/brandqr/pkg/errors"
	"github.com/matzehuels/brandqr/pkg/qr"
)

func randomMatrix(t *testing.T, n int, seed int64) qr.Matrix {
	t.Helper()
	r := rand.New(rand.NewSource(seed))
	rows := make([][]bool, n)
	for y := range rows {
		rows[y] = make([]bool, n)
		for x := range rows[y] {
			rows[y][x] = r.Intn(2) == 1
		}
	}
	return qr.MustMatrix(rows)
}

func TestPlanTotalSize(t *testing.T) {
	tests := []struct {
		name   string
		size   int
		scale  float64
		border int
		want   float64
	}{
		{"example", 21, 10, 2, 250},
		{"no border", 21, 10, 0, 210},
		{"fractional scale", 25, 2.5, 4, 82.5},
		{"version 40", 177, 1, 4, 185},
		{"tiny", 1, 3, 1, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.ModuleScale, cfg.Border = tt.scale, tt.border
			g, err := Plan(tt.size, cfg)
			if err != nil {
				t.Fatalf("Plan() error = %v", err)
			}
			if g.TotalSize != tt.want {
				t.Errorf("TotalSize = %v, want %v", g.TotalSize, tt.want)
			}
			want := float64(tt.size)*tt.scale + 2*float64(tt.border)*tt.scale
			if g.TotalSize != want {
				t.Errorf("TotalSize = %v, want N*s + 2*b*s = %v", g.TotalSize, want)
			}
			if g.Offset != float64(tt.border)*tt.scale {
				t.Errorf("Offset = %v, want %v", g.Offset, float64(tt.border)*tt.scale)
			}
		})
	}
}

func TestPlanRejectsInvalidGeometry(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"negative scale", func(c *Config) { c.ModuleScale = -1 }},
		{"zero scale", func(c *Config) { c.ModuleScale = 0 }},
		{"negative border", func(c *Config) { c.Border = -1 }},
		{"logo zero percent", func(c *Config) {
			c.Logo = &Logo{Data: "data:image/png;base64,AA==", SizePercent: 0, Background: LogoNone}
		}},
		{"logo over 100", func(c *Config) {
			c.Logo = &Logo{Data: "data:image/png;base64,AA==", SizePercent: 101, Background: LogoNone}
		}},
		{"bad foreground", func(c *Config) { c.Foreground = "black" }},
		{"custom backing without color", func(c *Config) {
			c.Logo = &Logo{Data: "data:image/png;base64,AA==", SizePercent: 20, Background: LogoCustom}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			if _, err := Plan(21, cfg); !errors.IsConfiguration(err) {
				t.Errorf("Plan() error = %v, want INVALID_CONFIG", err)
			}
			img, err := RenderSVG(randomMatrix(t, 21, 1), cfg)
			if !errors.IsConfiguration(err) {
				t.Errorf("RenderSVG() error = %v, want INVALID_CONFIG", err)
			}
			if img.SVG != nil {
				t.Error("RenderSVG() produced an image for an invalid config")
			}
		})
	}
}

func TestNewConfigDoesNotClamp(t *testing.T) {
	_, err := NewConfig(WithModuleScale(-1))
	if !errors.IsConfiguration(err) {
		t.Fatalf("NewConfig() error = %v, want INVALID_CONFIG", err)
	}

	cfg, err := NewConfig(WithBorder(0), WithColors("#fff", "#000"))
	if err != nil {
		t.Fatalf("NewConfig() error = %v", err)
	}
	if cfg.Border != 0 || cfg.ModuleScale != DefaultModuleScale || cfg.Foreground != "#fff" {
		t.Errorf("NewConfig() = %+v", cfg)
	}
}

func TestPlanLogoBoxes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ModuleScale, cfg.Border = 10, 2
	cfg.Logo = &Logo{Data: "data:image/png;base64,AA==", SizePercent: 20, Background: LogoWhite}

	g, err := Plan(21, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if g.Logo == nil || g.Backing == nil {
		t.Fatal("expected logo and backing boxes")
	}
	side := g.Logo.W
	if side != 50 {
		t.Errorf("logo side = %v, want 50", side)
	}
	if want := side + 2*(0.1*side); g.Backing.W != want || g.Backing.H != want {
		t.Errorf("backing side = %v×%v, want %v", g.Backing.W, g.Backing.H, want)
	}
	lx, ly := g.Logo.Center()
	bx, by := g.Backing.Center()
	if lx != bx || ly != by || lx != g.TotalSize/2 {
		t.Errorf("centers differ: logo (%v,%v) backing (%v,%v) canvas %v", lx, ly, bx, by, g.TotalSize/2)
	}
	if g.BackingRadius != 0.1*side {
		t.Errorf("BackingRadius = %v, want %v", g.BackingRadius, 0.1*side)
	}

	cfg.Logo.Background = LogoNone
	g, _ = Plan(21, cfg)
	if g.Backing != nil {
		t.Error("backing should be absent for background none")
	}
}

func TestRenderSVGStructure(t *testing.T) {
	m := randomMatrix(t, 21, 42)
	cfg := DefaultConfig()
	cfg.Logo = &Logo{Data: "data:image/png;base64,AA==", SizePercent: 25, Background: LogoCustom, CustomColor: "#ff0000"}

	img, err := RenderSVG(m, cfg)
	if err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	s := img.String()

	if !strings.HasPrefix(s, "<?xml") {
		t.Error("missing XML prolog")
	}
	if n := strings.Count(s, "<path "); n != 1 {
		t.Errorf("path count = %d, want exactly 1", n)
	}
	if n := strings.Count(s, "<rect "); n != 2 {
		t.Errorf("rect count = %d, want 2 (background, backing)", n)
	}
	if n := strings.Count(s, "z"); n < m.Dark() {
		t.Errorf("closed segments = %d, want at least %d", n, m.Dark())
	}

	order := []string{`<rect width=`, `<path `, `rx=`, `<image `}
	last := -1
	for _, tok := range order {
		i := strings.Index(s, tok)
		if i <= last {
			t.Fatalf("%q out of draw order in\n%s", tok, s)
		}
		last = i
	}

	if img.Width != 290 || img.Height != 290 {
		t.Errorf("size = %v×%v, want 290×290", img.Width, img.Height)
	}
	if !strings.Contains(s, `width="290" height="290" viewBox="0 0 290 290"`) {
		t.Error("declared size does not match TotalSize")
	}
	if !strings.Contains(s, `fill="#ff0000" rx=`) {
		t.Error("custom backing color missing")
	}
	if strings.Contains(img.Inline(), "<?xml") || !strings.HasPrefix(img.Inline(), "<svg") {
		t.Error("Inline() should strip the prolog")
	}
}

func TestRenderSVGWhiteBacking(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logo = &Logo{Data: "data:image/png;base64,AA==", SizePercent: 10, Background: LogoWhite}
	img, err := RenderSVG(randomMatrix(t, 21, 3), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !regexp.MustCompile(`<rect x="[^"]+" y="[^"]+" width="[^"]+" height="[^"]+" fill="#ffffff" rx=`).Match(img.SVG) {
		t.Error("white backing rect not found")
	}
}

func TestRenderSVGModuleRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		size   int
		scale  float64
		border int
	}{
		{"v1", 21, 10, 4},
		{"v2 no border", 25, 1, 0},
		{"fractional", 29, 2.5, 3},
		{"odd scale", 33, 0.3, 2},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := randomMatrix(t, tt.size, int64(i))
			cfg := DefaultConfig()
			cfg.ModuleScale, cfg.Border = tt.scale, tt.border

			img, err := RenderSVG(m, cfg)
			if err != nil {
				t.Fatal(err)
			}
			g, _ := Plan(m.Size(), cfg)
			back, err := ParseModules(img.SVG, g)
			if err != nil {
				t.Fatalf("ParseModules() error = %v", err)
			}
			if !back.Equal(m) {
				t.Errorf("round trip mismatch:\nwant\n%s\ngot\n%s", m, back)
			}
		})
	}
}

func TestRenderSVGAllLight(t *testing.T) {
	m := qr.MustMatrix([][]bool{{false, false}, {false, false}})
	img, err := RenderSVG(m, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(img.SVG, []byte(`<path d="" fill="#000000"/>`)) {
		t.Errorf("expected empty path, got\n%s", img.SVG)
	}
}

func TestRenderSVGSegmentFormat(t *testing.T) {
	m := qr.MustMatrix([][]bool{{true, false}, {false, true}})
	cfg := DefaultConfig()
	cfg.ModuleScale, cfg.Border = 10, 1
	img, err := RenderSVG(m, cfg)
	if err != nil {
		t.Fatal(err)
	}
	want := `<path d="M10,10h10v10h-10zM20,20h10v10h-10z" fill="#000000"/>`
	if !strings.Contains(img.String(), want) {
		t.Errorf("path = %s, want %s", img.String(), want)
	}
}

func TestParseModulesRejectsForeignPaths(t *testing.T) {
	g := Geometry{MatrixSize: 2, ModuleScale: 10, Offset: 0, TotalSize: 20}
	tests := []struct {
		name string
		svg  string
	}{
		{"no path", `<svg></svg>`},
		{"wrong side", `<svg><path d="M0,0h5v5h-5z"/></svg>`},
		{"off grid", `<svg><path d="M3,0h10v10h-10z"/></svg>`},
		{"out of range", `<svg><path d="M20,0h10v10h-10z"/></svg>`},
		{"junk", `<svg><path d="M0,0h10v10h-10zL5,5"/></svg>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseModules([]byte(tt.svg), g); err == nil {
				t.Error("ParseModules() should fail")
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		r, g, b uint8
		wantErr bool
	}{
		{"#000000", 0, 0, 0, false},
		{"#ffffff", 255, 255, 255, false},
		{"#FF8000", 255, 128, 0, false},
		{"#f00", 255, 0, 0, false},
		{"red", 0, 0, 0, true},
		{"#12345", 0, 0, 0, true},
		{"#gggggg", 0, 0, 0, true},
		{"", 0, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && (c.R != tt.r || c.G != tt.g || c.B != tt.b || c.A != 255) {
				t.Errorf("ParseColor(%q) = %v", tt.in, c)
			}
		})
	}
}

func TestContrast(t *testing.T) {
	black, _ := ParseColor("#000")
	white, _ := ParseColor("#fff")
	if c := Contrast(black, white); c < 20.9 || c > 21.1 {
		t.Errorf("Contrast(black, white) = %v, want 21", c)
	}
	if c := Contrast(white, white); c != 1 {
		t.Errorf("Contrast(white, white) = %v, want 1", c)
	}
}

func TestParseVector(t *testing.T) {
	m := randomMatrix(t, 21, 7)
	cfg := DefaultConfig()
	cfg.ModuleScale, cfg.Border = 3, 2
	img, err := RenderSVG(m, cfg)
	if err != nil {
		t.Fatal(err)
	}

	back, g, err := ParseVector(img.SVG, 3, 2)
	if err != nil {
		t.Fatalf("ParseVector() error = %v", err)
	}
	if !back.Equal(m) || g.TotalSize != 75 {
		t.Errorf("ParseVector() = size %d total %v", back.Size(), g.TotalSize)
	}

	if _, _, err := ParseVector(img.SVG, 4, 2); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("wrong scale err = %v, want INVALID_FORMAT", err)
	}
	if _, _, err := ParseVector(img.SVG, 0, 2); !errors.IsConfiguration(err) {
		t.Errorf("zero scale err = %v, want INVALID_CONFIG", err)
	}
	if _, _, err := ParseVector([]byte("<html/>"), 3, 2); err == nil {
		t.Error("non-svg input should fail")
	}
}
