// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert implements the client for the remote conversion service.
// A conversion is one multipart POST carrying every selected file; the
// service answers with a PDF or a structured error.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/pdiddy/snapmerge/internal/httputil"
	"github.com/pdiddy/snapmerge/internal/logging"
	"github.com/pdiddy/snapmerge/pkg/types"
)

const convertPath = "/convert"

// Response headers carrying the service's informational counts.
const (
	HeaderProcessed = "X-Processed-Images"
	HeaderTotal     = "X-Total-Files"
	HeaderSkipped   = "X-Skipped-Files"
)

// Converter submits a set of files for conversion to a single PDF.
type Converter interface {
	// Convert sends files in order as one request and returns the
	// service's PDF. It fails with *TransportError or *ServiceError.
	Convert(ctx context.Context, files []types.FileEntry) (*Result, error)
}

// Result is a successful conversion response.
type Result struct {
	Content     []byte
	ContentType string
	Report      types.ConversionReport
}

// Client is the HTTP Converter.
type Client struct {
	http  *http.Client
	cfg   types.ServiceConfig
	token string
	log   logging.Logger
}

// NewClient creates a conversion client. Empty config fields take their
// defaults. token, when non-empty, is sent as a bearer credential.
func NewClient(httpClient *http.Client, cfg types.ServiceConfig, token string, log logging.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Client{
		http:  httpClient,
		cfg:   cfg.WithDefaults(),
		token: token,
		log:   log,
	}
}

// URL returns the conversion endpoint the client posts to.
func (c *Client) URL() string {
	return strings.TrimRight(c.cfg.Endpoint, "/") + convertPath
}

// Convert implements Converter. It issues exactly one request and never
// retries.
func (c *Client) Convert(ctx context.Context, files []types.FileEntry) (*Result, error) {
	url := c.URL()

	body, contentType := httputil.MultipartBody(c.cfg.FieldName, files, func(i int, e types.FileEntry) {
		c.log.Debug(ctx, "adding file", "index", i+1, "of", len(files), "name", e.Name, "size_mb", fmt.Sprintf("%.2f", float64(e.Size)/1024/1024))
	})
	defer body.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/pdf")
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.log.Debug(ctx, "uploading", "files", len(files), "url", url)

	resp, err := c.http.Do(req)
	if err != nil {
		var pe *httputil.PartError
		if errors.As(err, &pe) {
			return nil, fmt.Errorf("preparing upload: %w", pe)
		}
		return nil, &TransportError{Endpoint: c.cfg.Endpoint, Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug(ctx, "response received", "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := httputil.ReadErrorMessage(resp.Body)
		return nil, &ServiceError{StatusCode: resp.StatusCode, Message: msg}
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Endpoint: c.cfg.Endpoint, Err: fmt.Errorf("reading response: %w", err)}
	}

	result := &Result{
		Content:     content,
		ContentType: resp.Header.Get("Content-Type"),
		Report:      parseReport(resp.Header),
	}
	c.log.Debug(ctx, "conversion succeeded",
		"bytes", len(content),
		"processed", result.Report.Processed,
		"total", result.Report.Total,
		"skipped", result.Report.Skipped)
	return result, nil
}

// parseReport reads the informational count headers. Missing or malformed
// values leave the corresponding count at zero.
func parseReport(h http.Header) types.ConversionReport {
	processed, okP := headerInt(h, HeaderProcessed)
	total, okT := headerInt(h, HeaderTotal)
	skipped, _ := headerInt(h, HeaderSkipped)
	return types.ConversionReport{
		Processed: processed,
		Total:     total,
		Skipped:   skipped,
		Present:   okP && okT,
	}
}

func headerInt(h http.Header, key string) (int, bool) {
	v := strings.TrimSpace(h.Get(key))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
