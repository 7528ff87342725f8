package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/handiism/suno-exporter/internal/progress"
)

// DefaultUserAgent is a desktop browser user agent. Suno serves a reduced
// page to unknown clients.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

// DefaultTimeout bounds every request made by a Client.
const DefaultTimeout = 60 * time.Second

// Client wraps HTTP operations used to fetch Suno pages, audio and cover art.
//
// Example usage:
//
//	client := NewClient(WithTimeout(30 * time.Second))
//
//	doc, err := client.GetDocument(ctx, "https://suno.com/@someone")
//
//	err = client.DownloadFile(ctx, song.AudioURL, "/music/song.mp3", func(written, total int64) {
//	    fmt.Printf("%d / %d\n", written, total)
//	})
type Client struct {
	http *resty.Client
}

// Option configures a Client.
type Option func(*resty.Client)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) {
		if d > 0 {
			c.SetTimeout(d)
		}
	}
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(c *resty.Client) {
		if ua != "" {
			c.SetHeader("User-Agent", ua)
		}
	}
}

// WithProgress reports every completed request as a verbose event.
func WithProgress(fn progress.Func) Option {
	return func(c *resty.Client) {
		if fn == nil {
			return
		}
		c.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
			fn.Verbose("http request",
				slog.String("method", res.Request.Method),
				slog.String("url", res.Request.URL),
				slog.Int("status", res.StatusCode()),
				slog.Duration("took", res.Time()),
			)
			return nil
		})
	}
}

// NewClient creates a Client with a browser User-Agent and DefaultTimeout.
func NewClient(opts ...Option) *Client {
	client := resty.New()
	client.SetHeader("User-Agent", DefaultUserAgent)
	client.SetTimeout(DefaultTimeout)
	for _, opt := range opts {
		opt(client)
	}
	return &Client{http: client}
}

// StatusError is returned when the server answers with a non-200 status.
type StatusError struct {
	URL    string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d: %s", e.URL, e.Code, e.Status)
}

// Get performs a GET request and returns the response body as bytes.
//
// Returns a *StatusError when the response status is not 200 OK.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", rawURL, err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, &StatusError{URL: rawURL, Code: res.StatusCode(), Status: res.Status()}
	}
	return res.Body(), nil
}

// GetString performs a GET request and returns the response body as a string.
func (c *Client) GetString(ctx context.Context, rawURL string) (string, error) {
	body, err := c.Get(ctx, rawURL)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// GetDocument fetches rawURL and parses it as HTML.
//
// The returned document's Url is set to rawURL so relative links can be
// resolved against it.
func (c *Client) GetDocument(ctx context.Context, rawURL string) (*goquery.Document, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}

	body, err := c.Get(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html from %s: %w", rawURL, err)
	}
	doc.Url = u
	return doc, nil
}

// ProgressWriter wraps a writer to track download progress.
//
//	pw := &ProgressWriter{
//	    Writer: file,
//	    Total:  contentLength,
//	    OnUpdate: func(written, total int64) {
//	        fmt.Printf("%d / %d bytes\n", written, total)
//	    },
//	}
//	io.Copy(pw, response.Body)
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes, -1 when unknown.
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with (bytesWritten, totalExpected).
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// DownloadFile streams rawURL to destPath.
//
// The body is written to destPath + ".part" and renamed once complete, so
// destPath only ever exists as a finished download. onProgress may be nil.
func (c *Client) DownloadFile(ctx context.Context, rawURL, destPath string, onProgress func(written, total int64)) (err error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(rawURL)
	if err != nil {
		return fmt.Errorf("GET %s: %w", rawURL, err)
	}
	body := res.RawBody()
	defer body.Close()

	if res.StatusCode() != http.StatusOK {
		return &StatusError{URL: rawURL, Code: res.StatusCode(), Status: res.Status()}
	}

	partPath := destPath + ".part"
	file, err := os.Create(partPath)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(partPath)
		}
	}()

	var writer io.Writer = file
	if onProgress != nil {
		writer = &ProgressWriter{
			Writer:   file,
			Total:    res.RawResponse.ContentLength,
			OnUpdate: onProgress,
		}
	}

	if _, err = io.Copy(writer, body); err != nil {
		file.Close()
		return fmt.Errorf("download %s: %w", rawURL, err)
	}
	if err = file.Close(); err != nil {
		return err
	}
	return os.Rename(partPath, destPath)
}

// DownloadBytes downloads a small resource such as cover art into memory.
func (c *Client) DownloadBytes(ctx context.Context, rawURL string) ([]byte, error) {
	return c.Get(ctx, rawURL)
}
