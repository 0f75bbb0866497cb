package main

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/enthus-golang/memobird"
)

type sourceKind int

const (
	sourceFile sourceKind = iota
	sourceDataURL
	sourceBase64
)

// minRawBase64Len is the length above which a string without path
// separators is tried as base64 before being treated as a path.
const minRawBase64Len = 100

func (k sourceKind) String() string {
	switch k {
	case sourceDataURL:
		return "Base64 image"
	case sourceBase64:
		return "Raw base64 image"
	default:
		return "Image"
	}
}

// imageSource is an image given on the command line, either inline data or
// a path on disk.
type imageSource struct {
	kind sourceKind
	data []byte
	path string
}

func (s imageSource) addTo(p *memobird.Payload) error {
	if s.kind == sourceFile {
		return p.AddImageFile(s.path)
	}
	return p.AddImage(bytes.NewReader(s.data))
}

// openImageSource resolves src as a data URL, raw base64 or file path, in
// that order. Raw base64 that fails to decode falls back to a path.
func openImageSource(src string, logger *slog.Logger) (imageSource, error) {
	if strings.HasPrefix(src, "data:image") {
		_, encoded, ok := strings.Cut(src, "base64,")
		if !ok {
			return imageSource{}, errors.New("data URL is not base64 encoded")
		}
		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return imageSource{}, fmt.Errorf("decoding data URL: %w", err)
		}
		logger.Debug("detected data URL image", "bytes", len(data))
		return imageSource{kind: sourceDataURL, data: data}, nil
	}

	if !strings.ContainsAny(src, `/\`) && len(src) > minRawBase64Len {
		data, err := base64.StdEncoding.DecodeString(src)
		if err == nil {
			logger.Debug("detected raw base64 image", "bytes", len(data))
			return imageSource{kind: sourceBase64, data: data}, nil
		}
		logger.Debug("failed to decode as base64, treating as file path", "error", err)
	}

	info, err := os.Stat(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return imageSource{}, fmt.Errorf("image file not found at path: %s", src)
		}
		return imageSource{}, fmt.Errorf("failed to access image file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return imageSource{}, fmt.Errorf("path is not a file: %s", src)
	}
	return imageSource{kind: sourceFile, path: src}, nil
}
