// Package apiclient calls the CareerBERT backend over HTTP.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/UtsavYadav1/CareerBERT/internal/results"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/telemetry"
)

// ErrStatus matches any non-2xx backend answer.
var ErrStatus = errors.New("apiclient: unexpected status")

// ErrRejected is returned when the backend answers an upload with success=false.
var ErrRejected = errors.New("apiclient: upload rejected")

// StatusError carries a non-2xx status and the server's message, if any.
type StatusError struct {
	Op      string
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.Status)
}

// Is makes errors.Is(err, ErrStatus) true for every StatusError.
func (e *StatusError) Is(target error) bool { return target == ErrStatus }

// RejectedError is an upload the backend refused.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return ErrRejected.Error()
	}
	return ErrRejected.Error() + ": " + e.Message
}

// Is makes errors.Is(err, ErrRejected) true.
func (e *RejectedError) Is(target error) bool { return target == ErrRejected }

// Client talks to one backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New builds a client with a cookie jar scoped by public suffix so the
// backend session cookie follows the upload to the results and report calls.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout, Jar: jar},
	}, nil
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string { return c.baseURL }

// Jar returns the cookie jar shared with the push channel dialer.
func (c *Client) Jar() http.CookieJar { return c.httpClient.Jar }

// UploadInput is one resume submission.
type UploadInput struct {
	FileName       string
	Resume         []byte
	JobDescription string
	Location       string
}

// UploadResponse is the backend's answer to POST /upload.
type UploadResponse struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Upload posts the multipart form. A 2xx answer with success=false or no
// filename is returned as a RejectedError.
func (c *Client) Upload(ctx context.Context, in UploadInput) (UploadResponse, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("resume", in.FileName)
	if err != nil {
		return UploadResponse{}, fmt.Errorf("multipart resume: %w", err)
	}
	if _, err := part.Write(in.Resume); err != nil {
		return UploadResponse{}, fmt.Errorf("multipart resume: %w", err)
	}
	if err := w.WriteField("job_description", in.JobDescription); err != nil {
		return UploadResponse{}, fmt.Errorf("multipart job_description: %w", err)
	}
	if loc := strings.TrimSpace(in.Location); loc != "" {
		if err := w.WriteField("location", loc); err != nil {
			return UploadResponse{}, fmt.Errorf("multipart location: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return UploadResponse{}, fmt.Errorf("multipart close: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &body)
	if err != nil {
		return UploadResponse{}, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	raw, _, err := c.do(req, "upload")
	var parsed UploadResponse
	parseErr := json.Unmarshal(raw, &parsed)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && parseErr == nil {
			se.Message = parsed.Message
		}
		return UploadResponse{}, err
	}
	if parseErr != nil {
		return UploadResponse{}, fmt.Errorf("upload response parse: %w", parseErr)
	}
	if !parsed.Success || parsed.Filename == "" {
		return parsed, &RejectedError{Message: parsed.Message}
	}
	return parsed, nil
}

// FetchResults reads GET /results.
func (c *Client) FetchResults(ctx context.Context) (results.Results, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/results", nil)
	if err != nil {
		return results.Results{}, err
	}
	req.Header.Set("Accept", "application/json")

	raw, _, err := c.do(req, "results")
	if err != nil {
		return results.Results{}, err
	}
	r, err := results.Decode(raw)
	if err != nil {
		return results.Results{}, fmt.Errorf("results response parse: %w", err)
	}
	return r, nil
}

// Report is a downloaded report body.
type Report struct {
	Body        []byte
	ContentType string
}

// Ext is the file extension matching the report's content type.
func (r Report) Ext() string {
	mediaType, _, _ := mime.ParseMediaType(r.ContentType)
	if mediaType == "text/plain" {
		return ".txt"
	}
	return ".pdf"
}

// DownloadReport reads GET /download-report.
func (c *Client) DownloadReport(ctx context.Context) (Report, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/download-report", nil)
	if err != nil {
		return Report{}, err
	}
	raw, header, err := c.do(req, "download-report")
	if err != nil {
		return Report{}, err
	}
	return Report{Body: raw, ContentType: header.Get("Content-Type")}, nil
}

func (c *Client) do(req *http.Request, op string) ([]byte, http.Header, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return nil, nil, fmt.Errorf("%s request timeout: %w", op, err)
		}
		return nil, nil, fmt.Errorf("%s request: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("%s read body: %w", op, err)
	}
	telemetry.Debug("backend.call", map[string]any{
		"op":          op,
		"method":      req.Method,
		"status":      resp.StatusCode,
		"bytes":       len(raw),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return raw, resp.Header, &StatusError{Op: op, Status: resp.StatusCode}
	}
	return raw, resp.Header, nil
}
