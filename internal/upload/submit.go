package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
)

// Submitter sends one file to an endpoint.
type Submitter interface {
	Submit(ctx context.Context, endpoint string, file FileSelection) error
}

// HTTPSubmitter posts files as multipart/form-data. Endpoints are resolved
// against Origin when they are relative paths.
type HTTPSubmitter struct {
	Client *http.Client
	Origin string
}

// NewHTTPSubmitter returns a submitter for origin. A nil client uses
// http.DefaultClient.
func NewHTTPSubmitter(origin string, client *http.Client) *HTTPSubmitter {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSubmitter{Client: client, Origin: strings.TrimRight(origin, "/")}
}

// Submit posts file to endpoint. Only transport failures are reported; the
// response status and body are ignored.
func (s *HTTPSubmitter) Submit(ctx context.Context, endpoint string, file FileSelection) error {
	target, err := s.resolve(endpoint)
	if err != nil {
		return err
	}

	body, contentType, err := NewRequestBody(file)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, body)
	if err != nil {
		return fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", target, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (s *HTTPSubmitter) resolve(endpoint string) (string, error) {
	if endpoint == "" {
		return "", ErrEmptyEndpoint
	}
	if s.Origin == "" {
		return endpoint, nil
	}
	base, err := url.Parse(s.Origin + "/")
	if err != nil {
		return "", fmt.Errorf("parse origin %q: %w", s.Origin, err)
	}
	ref, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint %q: %w", endpoint, err)
	}
	return base.ResolveReference(ref).String(), nil
}

// NewRequestBody encodes file as a multipart body with a single "file"
// part and returns it with its Content-Type header value.
func NewRequestBody(file FileSelection) (*bytes.Buffer, string, error) {
	if file.Open == nil {
		return nil, "", errors.New("file selection has no content")
	}
	src, err := file.Open()
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", file.Name, err)
	}
	defer src.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(FieldName, file.Name)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, src); err != nil {
		return nil, "", fmt.Errorf("copy %s: %w", file.Name, err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}
