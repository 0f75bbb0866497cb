package memobird

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
)

// EncodeGBK converts s to GBK, the only text encoding the printer accepts.
// Runes GBK cannot represent, and invalid UTF-8, are dropped.
func EncodeGBK(s string) []byte {
	enc := simplifiedchinese.GBK.NewEncoder()
	out := make([]byte, 0, len(s))
	var buf [utf8.UTFMax]byte
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		if r < utf8.RuneSelf {
			out = append(out, byte(r))
			continue
		}
		if r == utf8.RuneError && size == 1 {
			continue
		}
		n := utf8.EncodeRune(buf[:], r)
		b, err := enc.Bytes(buf[:n])
		if err != nil {
			continue
		}
		out = append(out, b...)
	}
	return out
}

// DecodeGBK converts GBK bytes back to a UTF-8 string.
func DecodeGBK(b []byte) (string, error) {
	s, err := simplifiedchinese.GBK.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(s), nil
}
