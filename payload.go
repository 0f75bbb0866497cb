package memobird

import (
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"strings"
)

// Wire tags prefixing each encoded part.
const (
	TagText  = "T"
	TagImage = "P"

	partSeparator = "|"
)

// Part is one unit of a print payload: a TextPart or an ImagePart.
type Part interface {
	isPart()
}

// TextPart is a block of text.
type TextPart struct {
	Text string
}

// ImagePart is a normalized 1 bit BMP, as produced by NormalizeImage.
type ImagePart struct {
	Bitmap []byte
}

func (TextPart) isPart()  {}
func (ImagePart) isPart() {}

// Payload accumulates parts in print order and serializes them into the
// printcontent string. It is not safe for concurrent use.
type Payload struct {
	parts  []Part
	logger *slog.Logger
}

// NewPayload creates an empty payload.
func NewPayload() *Payload {
	return newPayload(slog.Default())
}

func newPayload(logger *slog.Logger) *Payload {
	return &Payload{logger: logger}
}

func (p *Payload) log() *slog.Logger {
	if p.logger == nil {
		return slog.Default()
	}
	return p.logger
}

// AddText appends a text part.
func (p *Payload) AddText(text string) *Payload {
	p.log().Debug("adding text part", "length", len(text))
	p.parts = append(p.parts, TextPart{Text: text})
	return p
}

// AddImage decodes and normalizes an image and appends it. On error the
// payload is left unchanged.
func (p *Payload) AddImage(r io.Reader) error {
	bmp, err := normalizeReader(r, p.log())
	if err != nil {
		return err
	}
	p.addBitmap(bmp)
	return nil
}

// AddImageFile is AddImage for an image on disk.
func (p *Payload) AddImageFile(path string) error {
	bmp, err := normalizeFile(path, p.log())
	if err != nil {
		return err
	}
	p.addBitmap(bmp)
	return nil
}

// AddDecodedImage normalizes an already decoded image and appends it.
func (p *Payload) AddDecodedImage(img image.Image) error {
	bmp, err := normalize(img, p.log())
	if err != nil {
		return err
	}
	p.addBitmap(bmp)
	return nil
}

func (p *Payload) addBitmap(bmp []byte) {
	p.parts = append(p.parts, ImagePart{Bitmap: bmp})
	p.log().Debug("image processed and added", "bytes", len(bmp))
}

// AddPart appends a prepared part as is.
func (p *Payload) AddPart(part Part) *Payload {
	p.parts = append(p.parts, part)
	return p
}

// Len returns the number of parts.
func (p *Payload) Len() int {
	return len(p.parts)
}

// Parts returns a copy of the parts in print order.
func (p *Payload) Parts() []Part {
	return append([]Part(nil), p.parts...)
}

// Build serializes all parts as "TAG:base64" joined by "|". Every text part
// except the last is terminated with a newline. A part that cannot be
// encoded is logged and skipped; Build itself never fails. An empty payload
// yields "".
func (p *Payload) Build() string {
	encoded := make([]string, 0, len(p.parts))
	last := len(p.parts) - 1

	for i, part := range p.parts {
		s, err := encodePart(part, i == last)
		if err != nil {
			p.log().Error("error encoding part, skipping", "index", i, "type", fmt.Sprintf("%T", part), "error", err)
			continue
		}
		encoded = append(encoded, s)
	}

	payload := strings.Join(encoded, partSeparator)
	p.log().Debug("built payload", "length", len(payload), "parts", len(encoded))
	return payload
}

var errEmptyBitmap = errors.New("image part has no bitmap data")

func encodePart(part Part, last bool) (string, error) {
	switch v := part.(type) {
	case TextPart:
		text := v.Text
		if !last && !strings.HasSuffix(text, "\n") {
			text += "\n"
		}
		return TagText + ":" + base64.StdEncoding.EncodeToString(EncodeGBK(text)), nil
	case ImagePart:
		if len(v.Bitmap) == 0 {
			return "", errEmptyBitmap
		}
		return TagImage + ":" + base64.StdEncoding.EncodeToString(v.Bitmap), nil
	case nil:
		return "", errors.New("nil part")
	default:
		return "", fmt.Errorf("unsupported part type %T", part)
	}
}

// DecodePayload parses a string produced by Build back into parts. Text is
// returned as UTF-8; bitmaps are returned as sent.
func DecodePayload(s string) ([]Part, error) {
	if s == "" {
		return nil, nil
	}

	segments := strings.Split(s, partSeparator)
	parts := make([]Part, 0, len(segments))
	for i, seg := range segments {
		tag, data, ok := strings.Cut(seg, ":")
		if !ok {
			return nil, fmt.Errorf("part %d: missing tag separator", i)
		}

		raw, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return nil, fmt.Errorf("part %d: decoding base64: %w", i, err)
		}

		switch tag {
		case TagText:
			text, err := DecodeGBK(raw)
			if err != nil {
				return nil, fmt.Errorf("part %d: decoding text: %w", i, err)
			}
			parts = append(parts, TextPart{Text: text})
		case TagImage:
			parts = append(parts, ImagePart{Bitmap: raw})
		default:
			return nil, fmt.Errorf("part %d: unknown tag %q", i, tag)
		}
	}

	return parts, nil
}
