package memobird

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_PrintContent(t *testing.T) {
	tests := []struct {
		name        string
		payload     func() *Payload
		setupServer func() *httptest.Server
		want        int64
		wantErr     bool
		errContains string
	}{
		{
			name:    "successful submission",
			payload: func() *Payload { return NewPayload().AddText("hi") },
			setupServer: func() *httptest.Server {
				return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					assert.Equal(t, "/printpaper", r.URL.Path)
					assert.Equal(t, http.MethodPost, r.Method)
					assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

					var req PrintRequest
					assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
					assert.Equal(t, "test-ak", req.AK)
					assert.Equal(t, "T:"+b64([]byte("hi")), req.PrintContent)
					assert.Equal(t, "device-1", req.MemobirdID)
					assert.Equal(t, "user-1", req.UserID)
					assert.Equal(t, "2024-01-02 03:04:05", req.Timestamp)

					_ = json.NewEncoder(w).Encode(map[string]interface{}{
						"showapi_res_code": 1,
						"printcontentid":   42,
					})
				}))
			},
			want: 42,
		},
		{
			name:    "content ID as string",
			payload: func() *Payload { return NewPayload().AddText("hi") },
			setupServer: func() *httptest.Server {
				return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					_ = json.NewEncoder(w).Encode(map[string]interface{}{
						"showapi_res_code": 1,
						"printcontentid":   "1234",
					})
				}))
			},
			want: 1234,
		},
		{
			name:    "missing content ID",
			payload: func() *Payload { return NewPayload().AddText("hi") },
			setupServer: func() *httptest.Server {
				return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					_ = json.NewEncoder(w).Encode(map[string]interface{}{
						"showapi_res_code": 1,
					})
				}))
			},
			wantErr:     true,
			errContains: "content ID not found in successful print API response",
		},
		{
			name:    "api failure",
			payload: func() *Payload { return NewPayload().AddText("hi") },
			setupServer: func() *httptest.Server {
				return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					_ = json.NewEncoder(w).Encode(map[string]interface{}{
						"showapi_res_code":  5,
						"showapi_res_error": "device offline",
					})
				}))
			},
			wantErr:     true,
			errContains: "api code 5): device offline",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := tt.setupServer()
			defer server.Close()

			client := newTestClient(t, server.URL)
			client.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local) }

			got, err := client.PrintContent(context.Background(), "device-1", "user-1", tt.payload())

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				var apiErr *APIError
				assert.ErrorAs(t, err, &apiErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestClient_PrintContent_EmptyPayload(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	for name, payload := range map[string]*Payload{
		"no parts":         NewPayload(),
		"nil payload":      nil,
		"only empty image": NewPayload().AddPart(ImagePart{}),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := client.PrintContent(context.Background(), "device-1", "user-1", payload)

			var contentErr *ContentError
			require.ErrorAs(t, err, &contentErr)
			assert.ErrorIs(t, err, ErrEmptyContent)
		})
	}

	assert.Zero(t, calls.Load())
}

func TestClient_PrintURL(t *testing.T) {
	tests := []struct {
		name        string
		setupServer func() *httptest.Server
		want        int64
		wantErr     bool
		errContains string
	}{
		{
			name: "successful submission",
			setupServer: func() *httptest.Server {
				return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					assert.Equal(t, "/printpaperFromUrl", r.URL.Path)
					assert.Equal(t, http.MethodPost, r.Method)

					var req map[string]string
					assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
					assert.Equal(t, "https://example.com/page", req["printUrl"])
					assert.Equal(t, "device-1", req["memobirdID"])
					assert.Equal(t, "user-1", req["userID"])
					assert.Equal(t, "test-ak", req["ak"])
					assert.NotEmpty(t, req["timestamp"])

					_ = json.NewEncoder(w).Encode(map[string]interface{}{
						"showapi_res_code": 1,
						"printcontentid":   7,
					})
				}))
			},
			want: 7,
		},
		{
			name: "server error",
			setupServer: func() *httptest.Server {
				return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusServiceUnavailable)
					_, _ = w.Write([]byte("maintenance"))
				}))
			},
			wantErr:     true,
			errContains: "status 503: maintenance",
		},
		{
			name: "missing content ID",
			setupServer: func() *httptest.Server {
				return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					_ = json.NewEncoder(w).Encode(map[string]interface{}{"showapi_res_code": 1})
				}))
			},
			wantErr:     true,
			errContains: "content ID not found in successful print URL API response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := tt.setupServer()
			defer server.Close()

			client := newTestClient(t, server.URL)
			got, err := client.PrintURL(context.Background(), "device-1", "user-1", "https://example.com/page")

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
