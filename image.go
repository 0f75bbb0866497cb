package memobird

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"os"

	"github.com/makeworld-the-better-one/dither/v2"
	"golang.org/x/image/draw"

	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder

	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// MaxWidth is the printable width of the print head in pixels.
const MaxWidth = 384

var monoPalette = color.Palette{color.Black, color.White}

// NormalizeImage decodes an image and converts it into the 1 bit BMP the
// printer expects. Any failure is returned as a *ContentError.
func NormalizeImage(r io.Reader) ([]byte, error) {
	return normalizeReader(r, slog.Default())
}

// NormalizeImageFile is NormalizeImage for an image on disk.
func NormalizeImageFile(path string) ([]byte, error) {
	return normalizeFile(path, slog.Default())
}

// NormalizeDecoded converts an already decoded image.
func NormalizeDecoded(img image.Image) ([]byte, error) {
	return normalize(img, slog.Default())
}

func normalizeFile(path string, logger *slog.Logger) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ContentError{Op: "image file not found: " + path, Err: err}
		}
		return nil, &ContentError{Op: "opening image file", Err: err}
	}
	defer f.Close()

	return normalizeReader(f, logger)
}

func normalizeReader(r io.Reader, logger *slog.Logger) ([]byte, error) {
	if r == nil {
		return nil, &ContentError{Op: "decoding image", Err: errors.New("no image source")}
	}

	img, format, err := image.Decode(r)
	if err != nil {
		return nil, &ContentError{Op: "cannot identify image", Err: err}
	}
	logger.Debug("decoded image", "format", format, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())

	return normalize(img, logger)
}

func normalize(img image.Image, logger *slog.Logger) ([]byte, error) {
	if img == nil {
		return nil, &ContentError{Op: "processing image", Err: errors.New("nil image")}
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, &ContentError{Op: "processing image", Err: fmt.Errorf("empty image bounds %v", bounds)}
	}

	rgb := flatten(img)

	width, height := bounds.Dx(), bounds.Dy()
	if width > MaxWidth {
		newHeight := scaledHeight(width, height)
		logger.Info("resizing image", "from", fmt.Sprintf("%dx%d", width, height), "to", fmt.Sprintf("%dx%d", MaxWidth, newHeight))

		scaled := image.NewRGBA(image.Rect(0, 0, MaxWidth, newHeight))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), rgb, rgb.Bounds(), draw.Src, nil)
		rgb = scaled
	}

	ditherer := dither.NewDitherer(monoPalette)
	ditherer.Matrix = dither.FloydSteinberg
	mono := ditherer.DitherPaletted(toneMap(rgb))

	var buf bytes.Buffer
	if err := encodeMonoBMP(&buf, mono); err != nil {
		return nil, &ContentError{Op: "encoding bitmap", Err: err}
	}

	return buf.Bytes(), nil
}

// flatten draws img onto an opaque white canvas anchored at the origin, so
// that palette and alpha images reach the ditherer as plain RGB.
func flatten(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

// toneGamma lifts midtones before dithering. The ditherer works in linear
// light, which without correction prints a mid-gray at roughly 20% white.
const toneGamma = 0.5

// toneMap converts img to gray and applies toneGamma.
func toneMap(img *image.RGBA) *image.Gray16 {
	b := img.Bounds()
	gray := image.NewGray16(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.Gray16Model.Convert(img.RGBAAt(x, y)).(color.Gray16)
			v := math.Pow(float64(g.Y)/0xffff, toneGamma)
			gray.SetGray16(x, y, color.Gray16{Y: uint16(math.Round(v * 0xffff))})
		}
	}
	return gray
}

func scaledHeight(width, height int) int {
	h := int(math.Round(float64(height) * MaxWidth / float64(width)))
	if h < 1 {
		h = 1
	}
	return h
}
