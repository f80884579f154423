// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package upload sends local data files to the backend for analysis and
// returns the filename token used to mark later messages as file-scoped.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// MaxFileSize is the largest file the backend accepts.
	MaxFileSize = 10 * 1024 * 1024

	// DefaultTimeout bounds the whole upload round trip.
	DefaultTimeout = 120 * time.Second

	uploadPath = "/api/upload"
)

// allowedExtensions mirrors the backend's accepted data formats. Checking
// client-side saves a round trip for files the server would reject anyway.
var allowedExtensions = map[string]bool{
	".csv":  true,
	".json": true,
	".xlsx": true,
	".xls":  true,
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrFileTooLarge is returned before any bytes hit the wire.
	ErrFileTooLarge = errors.New("file too large, maximum size is 10MB")

	// ErrUnsupportedType is returned for files outside the accepted formats.
	ErrUnsupportedType = errors.New("unsupported file type, allowed: .csv, .json, .xlsx, .xls")
)

// =============================================================================
// TYPES
// =============================================================================

// Result is the backend's analysis of an uploaded file. Filename is the
// token later prefixed onto file-scoped chat messages.
type Result struct {
	Success          bool     `json:"success"`
	Filename         string   `json:"filename"`
	Shape            []int    `json:"shape"`
	Columns          []string `json:"columns"`
	Message          string   `json:"message"`
	ChartSuggestions []string `json:"chart_suggestions,omitempty"`
}

// Rows returns the uploaded dataset's row count, or 0 when unknown.
func (r *Result) Rows() int {
	if len(r.Shape) > 0 {
		return r.Shape[0]
	}
	return 0
}

// Uploader posts files to the backend upload endpoint.
type Uploader struct {
	baseURL string
	http    *http.Client
}

// New creates an Uploader against the given backend base URL.
func New(baseURL string) *Uploader {
	return &Uploader{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
}

// WithHTTPClient swaps the underlying transport, mainly for tests.
func (u *Uploader) WithHTTPClient(hc *http.Client) *Uploader {
	u.http = hc
	return u
}

// =============================================================================
// UPLOAD
// =============================================================================

// UploadFile reads the file at path and posts it to the backend. The file
// is validated locally against the size and extension limits first.
func (u *Uploader) UploadFile(ctx context.Context, path string) (*Result, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !allowedExtensions[ext] {
		return nil, ErrUnsupportedType
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if info.Size() > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return u.Upload(ctx, filepath.Base(path), f)
}

// Upload posts the named content as a multipart form. The reader is
// consumed fully; callers that already know the size should prefer
// UploadFile for its pre-flight checks.
func (u *Uploader) Upload(ctx context.Context, filename string, content io.Reader) (*Result, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	n, err := io.Copy(part, io.LimitReader(content, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	if n > MaxFileSize {
		return nil, ErrFileTooLarge
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+uploadPath, &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxFileSize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upload failed: %s", errorDetail(resp.StatusCode, data))
	}

	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if !result.Success {
		msg := result.Message
		if msg == "" {
			msg = "server rejected the file"
		}
		return nil, fmt.Errorf("upload rejected: %s", msg)
	}
	if result.Filename == "" {
		result.Filename = filename
	}
	return &result, nil
}

// errorDetail extracts the backend's detail field from an error body,
// falling back to the bare status code.
func errorDetail(status int, body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	return fmt.Sprintf("status %d", status)
}
