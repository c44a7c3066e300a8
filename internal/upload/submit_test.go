package upload

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequestBodyHasSingleFilePart(t *testing.T) {
	body, contentType, err := NewRequestBody(selection("midterm.pdf", []byte("%PDF-1.7")))
	require.NoError(t, err)

	mediaType, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)

	reader := multipart.NewReader(body, params["boundary"])
	part, err := reader.NextPart()
	require.NoError(t, err)
	assert.Equal(t, FieldName, part.FormName())
	assert.Equal(t, "midterm.pdf", part.FileName())
	content, err := io.ReadAll(part)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(content))

	_, err = reader.NextPart()
	assert.ErrorIs(t, err, io.EOF)
}

func TestNewRequestBodyErrors(t *testing.T) {
	_, _, err := NewRequestBody(FileSelection{Name: "x"})
	require.Error(t, err)

	openErr := errors.New("permission denied")
	_, _, err = NewRequestBody(FileSelection{
		Name: "locked.txt",
		Open: func() (io.ReadCloser, error) { return nil, openErr },
	})
	require.ErrorIs(t, err, openErr)
}

func TestHTTPSubmitterPostsToResolvedEndpoint(t *testing.T) {
	var gotMethod, gotPath, gotType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		gotType, _, _ = mime.ParseMediaType(r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("ignored"))
	}))
	defer server.Close()

	sub := NewHTTPSubmitter(server.URL+"/", server.Client())
	err := sub.Submit(context.Background(), "/upload/notes", selection("n.txt", []byte("n")))

	require.NoError(t, err, "status codes are not errors")
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/upload/notes", gotPath)
	assert.Equal(t, "multipart/form-data", gotType)
}

func TestHTTPSubmitterResolve(t *testing.T) {
	tests := []struct {
		origin   string
		endpoint string
		want     string
	}{
		{"", "/upload/syllabus", "/upload/syllabus"},
		{"http://localhost:8080", "/upload/syllabus", "http://localhost:8080/upload/syllabus"},
		{"http://localhost:8080/", "upload/notes", "http://localhost:8080/upload/notes"},
		{"https://example.test", "https://other.test/upload", "https://other.test/upload"},
	}
	for _, tt := range tests {
		got, err := NewHTTPSubmitter(tt.origin, nil).resolve(tt.endpoint)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := NewHTTPSubmitter("http://x", nil).resolve("")
	assert.ErrorIs(t, err, ErrEmptyEndpoint)
}

func TestHTTPSubmitterHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewHTTPSubmitter(server.URL, server.Client()).Submit(ctx, "/upload/notes", selection("n", []byte("n")))
	assert.ErrorIs(t, err, context.Canceled)
}
