package main

import (
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/enthus-golang/memobird"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{in: "hello", n: 10, want: "hello"},
		{in: "hello world", n: 5, want: "hello..."},
		{in: "你好世界", n: 4, want: "你..."},
		{in: "你好世界", n: 6, want: "你好..."},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := truncate(tt.in, tt.n)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "content",
			err:  &memobird.ContentError{Op: "cannot identify image", Err: errors.New("bad")},
			want: "error processing image: cannot identify image: bad",
		},
		{
			name: "api",
			err:  &memobird.APIError{Code: 5, Message: "offline", HTTPStatus: 200},
			want: "error printing image (API/network): api error (http status 200, api code 5): offline",
		},
		{
			name: "network",
			err:  &memobird.NetworkError{StatusCode: 502},
			want: "error printing image (API/network): http error: status 502",
		},
		{
			name: "other",
			err:  errors.New("boom"),
			want: "memobird client error printing image: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := describe("image", tt.err)
			assert.EqualError(t, got, tt.want)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}
