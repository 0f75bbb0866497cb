package memobird

import (
	"bytes"
	"encoding/base64"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func b64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

func TestPayload_Build(t *testing.T) {
	bmp := []byte("BM-fake-bitmap")

	tests := []struct {
		name  string
		parts []Part
		want  string
	}{
		{
			name: "empty",
			want: "",
		},
		{
			name:  "single text gets no newline",
			parts: []Part{TextPart{Text: "hi"}},
			want:  "T:" + b64([]byte("hi")),
		},
		{
			name:  "non-final text gains newline",
			parts: []Part{TextPart{Text: "one"}, TextPart{Text: "two"}},
			want:  "T:" + b64([]byte("one\n")) + "|T:" + b64([]byte("two")),
		},
		{
			name:  "existing newline not doubled",
			parts: []Part{TextPart{Text: "one\n"}, TextPart{Text: "two\n"}},
			want:  "T:" + b64([]byte("one\n")) + "|T:" + b64([]byte("two\n")),
		},
		{
			name:  "text then image",
			parts: []Part{TextPart{Text: "logo"}, ImagePart{Bitmap: bmp}},
			want:  "T:" + b64([]byte("logo\n")) + "|P:" + b64(bmp),
		},
		{
			name:  "chinese text is GBK",
			parts: []Part{TextPart{Text: "你好"}},
			want:  "T:" + b64([]byte{0xc4, 0xe3, 0xba, 0xc3}),
		},
		{
			name:  "empty image skipped",
			parts: []Part{TextPart{Text: "a"}, ImagePart{}, TextPart{Text: "b"}},
			want:  "T:" + b64([]byte("a\n")) + "|T:" + b64([]byte("b")),
		},
		{
			name:  "nil part skipped",
			parts: []Part{nil, ImagePart{Bitmap: bmp}},
			want:  "P:" + b64(bmp),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPayload()
			for _, part := range tt.parts {
				p.AddPart(part)
			}

			assert.Equal(t, tt.want, p.Build())
		})
	}
}

func TestPayload_BuildDeterministic(t *testing.T) {
	p := NewPayload().AddText("first").AddText("second")
	require.NoError(t, p.AddDecodedImage(gradient(500, 50)))

	first := p.Build()
	assert.Equal(t, first, p.Build())

	// more parts re-serialize the whole list; earlier text now gets a newline
	p.AddText("third")
	parts, err := DecodePayload(p.Build())
	require.NoError(t, err)
	require.Len(t, parts, 4)
	assert.Equal(t, TextPart{Text: "first\n"}, parts[0])
	assert.Equal(t, TextPart{Text: "second\n"}, parts[1])
	assert.Equal(t, TextPart{Text: "third"}, parts[3])
	assert.Equal(t, first+"|T:"+b64([]byte("third")), p.Build())
}

func TestPayload_AddImage(t *testing.T) {
	p := NewPayload()
	require.NoError(t, p.AddImage(bytes.NewReader(encodePNG(t, solidImage(20, 10, color.Black)))))
	require.Equal(t, 1, p.Len())

	img, ok := p.Parts()[0].(ImagePart)
	require.True(t, ok)
	info := readBMPInfo(t, img.Bitmap)
	assert.Equal(t, int32(20), info.width)
	assert.Equal(t, int32(10), info.height)
}

func TestPayload_AddImageFailureLeavesPayloadUnchanged(t *testing.T) {
	p := NewPayload().AddText("keep")

	err := p.AddImage(strings.NewReader("garbage"))
	var contentErr *ContentError
	require.ErrorAs(t, err, &contentErr)

	err = p.AddImageFile("/does/not/exist.png")
	require.ErrorAs(t, err, &contentErr)

	assert.Equal(t, 1, p.Len())
	assert.Equal(t, "T:"+b64([]byte("keep")), p.Build())
}

func TestPayload_PartsIsCopy(t *testing.T) {
	p := NewPayload().AddText("a")
	parts := p.Parts()
	parts[0] = TextPart{Text: "changed"}

	assert.Equal(t, TextPart{Text: "a"}, p.Parts()[0])
}

func TestPayload_ZeroValue(t *testing.T) {
	var p Payload
	p.AddText("works")

	assert.Equal(t, "T:"+b64([]byte("works")), p.Build())
}

func TestDecodePayload_RoundTrip(t *testing.T) {
	p := NewPayload().AddText("标题").AddText("drop 😀 me")
	require.NoError(t, p.AddDecodedImage(solidImage(30, 5, color.White)))
	added := p.Parts()[2].(ImagePart).Bitmap
	p.AddText("end")

	parts, err := DecodePayload(p.Build())
	require.NoError(t, err)

	assert.Equal(t, []Part{
		TextPart{Text: "标题\n"},
		TextPart{Text: "drop  me\n"},
		ImagePart{Bitmap: added},
		TextPart{Text: "end"},
	}, parts)
}

func TestDecodePayload_Errors(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		errContains string
	}{
		{name: "missing separator", in: "Tabc", errContains: "missing tag separator"},
		{name: "bad base64", in: "T:!!!", errContains: "decoding base64"},
		{name: "unknown tag", in: "X:" + b64([]byte("x")), errContains: `unknown tag "X"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePayload(tt.in)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}

	parts, err := DecodePayload("")
	require.NoError(t, err)
	assert.Empty(t, parts)
}
