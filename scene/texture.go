package scene

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/mauserzjeh/dxt"
	xdraw "golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"rendering-engine/internal/gfx"
)

// TextureKind is the shading role of a texture, fixed at load time.
type TextureKind int

const (
	TextureDiffuse TextureKind = iota
	TextureSpecular
	TextureNormal
	TextureHeight
)

// String returns the sampler prefix the shaders use for the kind.
func (k TextureKind) String() string {
	switch k {
	case TextureDiffuse:
		return "texture_diffuse"
	case TextureSpecular:
		return "texture_specular"
	case TextureNormal:
		return "texture_normal"
	case TextureHeight:
		return "texture_height"
	default:
		return "texture_unknown"
	}
}

// Texture holds RGBA8 pixels, bottom row first, plus the GPU handle once
// uploaded. The handle belongs to the mesh that carries the texture.
type Texture struct {
	Kind   TextureKind
	Name   string
	Width  int
	Height int
	Pixels []byte
	Handle gfx.Texture
}

// Upload creates the GPU texture if it does not exist yet.
func (t *Texture) Upload(dev gfx.Device) error {
	if t.Handle != 0 {
		return nil
	}
	h, err := dev.NewTexture2D(int32(t.Width), int32(t.Height), t.Pixels)
	if err != nil {
		return fmt.Errorf("upload texture %q: %w", t.Name, err)
	}
	t.Handle = h
	return nil
}

func (t *Texture) Release(dev gfx.Device) {
	if t.Handle == 0 {
		return
	}
	dev.DeleteTexture(t.Handle)
	t.Handle = 0
}

// Clone copies the CPU side only, so each mesh can own its GPU texture.
func (t *Texture) Clone() *Texture {
	c := *t
	c.Handle = 0
	return &c
}

// LoadTexture reads png, jpeg, bmp, tiff, webp or DXT1/DXT5 dds files.
func LoadTexture(path string, kind TextureKind) (*Texture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open texture %q: %w", path, err)
	}
	var tex *Texture
	if strings.EqualFold(filepath.Ext(path), ".dds") {
		tex, err = decodeDDS(path, data)
	} else {
		tex, err = decodeImage(path, data)
	}
	if err != nil {
		return nil, fmt.Errorf("decode texture %q: %w", path, err)
	}
	tex.Kind = kind
	flipRows(tex.Pixels, tex.Width)
	return tex, nil
}

// decodeImage converts any registered image format to top-down RGBA8.
func decodeImage(name string, data []byte) (*Texture, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(rgba, rgba.Bounds(), img, b.Min, xdraw.Src)
	return &Texture{Name: name, Width: b.Dx(), Height: b.Dy(), Pixels: rgba.Pix}, nil
}

// ── DDS ──────────────────────────────────────────────────────────────────────

const (
	ddsHeaderSize = 128
	ddsMagic      = "DDS "
)

var errDDSFormat = errors.New("unsupported dds format")

// decodeDDS reads the top mip level of a DXT1 or DXT5 surface.
func decodeDDS(name string, data []byte) (*Texture, error) {
	if len(data) < ddsHeaderSize || string(data[:4]) != ddsMagic {
		return nil, errors.New("not a dds file")
	}
	h := binary.LittleEndian.Uint32(data[12:16])
	w := binary.LittleEndian.Uint32(data[16:20])
	fourCC := string(data[84:88])
	blocks := ((w + 3) / 4) * ((h + 3) / 4)
	body := data[ddsHeaderSize:]

	var (
		pix []byte
		err error
	)
	switch fourCC {
	case "DXT1":
		if uint32(len(body)) < blocks*8 {
			return nil, fmt.Errorf("dxt1 data truncated")
		}
		pix, err = dxt.DecodeDXT1(body[:blocks*8], uint(w), uint(h))
	case "DXT5":
		if uint32(len(body)) < blocks*16 {
			return nil, fmt.Errorf("dxt5 data truncated")
		}
		pix, err = dxt.DecodeDXT5(body[:blocks*16], uint(w), uint(h))
	default:
		return nil, fmt.Errorf("%w: %q", errDDSFormat, fourCC)
	}
	if err != nil {
		return nil, err
	}
	return &Texture{Name: name, Width: int(w), Height: int(h), Pixels: pix}, nil
}

func flipRows(pix []byte, width int) {
	stride := width * 4
	if stride == 0 {
		return
	}
	rows := len(pix) / stride
	tmp := make([]byte, stride)
	for top, bottom := 0, rows-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := pix[top*stride : (top+1)*stride]
		b := pix[bottom*stride : (bottom+1)*stride]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}

// NewSolidTexture creates a 1x1 texture.
func NewSolidTexture(name string, kind TextureKind, r, g, b, a uint8) *Texture {
	return &Texture{Kind: kind, Name: name, Width: 1, Height: 1, Pixels: []byte{r, g, b, a}}
}
