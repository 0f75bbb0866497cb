package memobird

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"io"
)

const (
	bmpFileHeaderLen = 14
	bmpInfoHeaderLen = 40
	bmpPaletteLen    = 2 * 4
	bmpPixelOffset   = bmpFileHeaderLen + bmpInfoHeaderLen + bmpPaletteLen
	// 72 DPI expressed in pixels per metre.
	bmpResolution = 2835
)

// encodeMonoBMP writes m as an uncompressed 1 bit per pixel BMP. m must
// have a two colour palette. Set bits select palette entry 1.
func encodeMonoBMP(w io.Writer, m *image.Paletted) error {
	if len(m.Palette) != 2 {
		return fmt.Errorf("monochrome bitmap needs a 2 colour palette, got %d", len(m.Palette))
	}

	b := m.Bounds()
	width, height := b.Dx(), b.Dy()
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid bitmap size %dx%d", width, height)
	}
	// rows are padded to a multiple of 4 bytes
	stride := ((width + 31) / 32) * 4
	imageSize := stride * height

	header := make([]byte, bmpPixelOffset)
	header[0], header[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(header[2:], uint32(bmpPixelOffset+imageSize))
	binary.LittleEndian.PutUint32(header[10:], bmpPixelOffset)

	info := header[bmpFileHeaderLen:]
	binary.LittleEndian.PutUint32(info[0:], bmpInfoHeaderLen)
	binary.LittleEndian.PutUint32(info[4:], uint32(width))
	binary.LittleEndian.PutUint32(info[8:], uint32(height))
	binary.LittleEndian.PutUint16(info[12:], 1) // planes
	binary.LittleEndian.PutUint16(info[14:], 1) // bits per pixel
	binary.LittleEndian.PutUint32(info[16:], 0) // BI_RGB
	binary.LittleEndian.PutUint32(info[20:], uint32(imageSize))
	binary.LittleEndian.PutUint32(info[24:], bmpResolution)
	binary.LittleEndian.PutUint32(info[28:], bmpResolution)
	binary.LittleEndian.PutUint32(info[32:], 2) // colours used
	binary.LittleEndian.PutUint32(info[36:], 2) // important colours

	palette := header[bmpFileHeaderLen+bmpInfoHeaderLen:]
	for i, c := range m.Palette {
		r, g, bl, _ := color.RGBAModel.Convert(c).RGBA()
		// palette entries are stored as B, G, R, reserved
		palette[i*4+0] = byte(bl >> 8)
		palette[i*4+1] = byte(g >> 8)
		palette[i*4+2] = byte(r >> 8)
	}

	if _, err := w.Write(header); err != nil {
		return err
	}

	row := make([]byte, stride)
	// BMP rows run bottom-up
	for y := b.Max.Y - 1; y >= b.Min.Y; y-- {
		clear(row)
		for x := 0; x < width; x++ {
			if m.ColorIndexAt(b.Min.X+x, y) != 0 {
				row[x/8] |= 0x80 >> (x % 8)
			}
		}
		if _, err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}
