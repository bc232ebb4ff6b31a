package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEtagMatches(t *testing.T) {
	const tag = `"00000000000000ff"`

	tests := map[string]bool{
		"":                             false,
		tag:                            true,
		"W/" + tag:                     true,
		"*":                            true,
		`"other"`:                      false,
		`"other", ` + tag:              true,
		`"other",W/"00000000000000fe"`: false,
	}

	for header, want := range tests {
		assert.Equal(t, want, etagMatches(header, tag), "If-None-Match: %q", header)
	}
}

func TestWriteCacheable(t *testing.T) {
	payload := []map[string]string{{"title": "T1"}}

	rec := httptest.NewRecorder()
	require.NoError(t, writeCacheable(rec, httptest.NewRequest(http.MethodGet, "/projects", nil), payload))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "private, no-cache", rec.Header().Get("Cache-Control"))
	assert.JSONEq(t, `[{"title":"T1"}]`, rec.Body.String())

	tag := rec.Header().Get("ETag")
	require.Len(t, tag, 18)
	assert.Equal(t, etag(rec.Body.Bytes()), tag)

	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	req.Header.Set("If-None-Match", tag)
	rec = httptest.NewRecorder()
	require.NoError(t, writeCacheable(rec, req, payload))

	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, tag, rec.Header().Get("ETag"))

	rec = httptest.NewRecorder()
	require.NoError(t, writeCacheable(rec, req, []map[string]string{{"title": "T2"}}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEqual(t, tag, rec.Header().Get("ETag"))
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "valid", body: `{"title":"T1"}`},
		{name: "empty", body: ``, wantErr: "request body is empty"},
		{name: "malformed", body: `{"title":`, wantErr: "request body is not valid JSON"},
		{name: "wrong type", body: `{"title":42}`, wantErr: "request body is not valid JSON"},
		{name: "too large", body: `{"title":"` + strings.Repeat("x", maxBodyBytes) + `"}`, wantErr: "request body is not valid JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v struct {
				Title string `json:"title"`
			}
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			err := decodeJSON(httptest.NewRecorder(), req, &v)

			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "T1", v.Title)
				return
			}
			require.EqualError(t, err, tt.wantErr)
			status, _ := classify(err)
			assert.Equal(t, http.StatusBadRequest, status)
		})
	}
}
