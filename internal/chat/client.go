package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
)

// Client calls the relay endpoints over HTTP.
type Client struct {
	base *url.URL
	http *http.Client
}

var _ Relay = (*Client)(nil)

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("chat: parse server url: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{base: base, http: httpClient}, nil
}

// ResponseError is a failure envelope returned by the server.
type ResponseError struct {
	StatusCode int
	Message    string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("chat: server returned %d: %s", e.StatusCode, e.Message)
}

type envelope struct {
	Output  string `json:"output"`
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return "", err
	}

	return c.post(ctx, "/api/generate-text", "application/json", bytes.NewReader(body))
}

func (c *Client) GenerateFromFile(ctx context.Context, prompt string, file StagedFile) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := mw.WriteField("prompt", prompt); err != nil {
		return "", err
	}

	field := string(file.Modality)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, file.Name))
	if file.MimeType != "" {
		h.Set("Content-Type", file.MimeType)
	}
	w, err := mw.CreatePart(h)
	if err != nil {
		return "", err
	}
	if _, err := w.Write(file.Data); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	return c.post(ctx, "/api/generate-from-"+field, mw.FormDataContentType(), &body)
}

func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader) (string, error) {
	requestURL := c.base.ResolveReference(&url.URL{Path: c.base.Path + path})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL.String(), body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat: post %s: %w", path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return "", &ResponseError{StatusCode: resp.StatusCode, Message: "invalid response body"}
	}

	if env.Error != "" || resp.StatusCode != http.StatusOK {
		message := env.Error
		if message == "" {
			message = resp.Status
		}
		return "", &ResponseError{StatusCode: resp.StatusCode, Message: message}
	}

	return env.Output, nil
}
