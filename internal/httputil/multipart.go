// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the conversion client:
// streamed multipart request bodies and structured error-body decoding.
package httputil

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/pdiddy/snapmerge/pkg/types"
)

// PartError reports a file whose content could not be streamed into the body.
type PartError struct {
	Name string
	Err  error
}

func (e *PartError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Name, e.Err)
}

func (e *PartError) Unwrap() error {
	return e.Err
}

// PartFunc is called before each file part is written, with the part's
// zero-based position in the body.
type PartFunc func(index int, entry types.FileEntry)

// MultipartBody streams entries as a multipart/form-data body. Every entry
// becomes one part under field, carrying its original filename and raw
// content, in the order given. File content is opened only as the body is
// read, so no file is held in memory.
//
// The returned reader must be consumed or closed; the writer goroutine exits
// when either happens. A failure to open or read a file surfaces as a
// *PartError from the body's Read.
func MultipartBody(field string, entries []types.FileEntry, onPart PartFunc) (body io.ReadCloser, contentType string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeParts(mw, field, entries, onPart))
	}()

	return pr, mw.FormDataContentType()
}

func writeParts(mw *multipart.Writer, field string, entries []types.FileEntry, onPart PartFunc) error {
	for i, e := range entries {
		if onPart != nil {
			onPart(i, e)
		}
		if err := writePart(mw, field, e); err != nil {
			return err
		}
	}
	return mw.Close()
}

func writePart(mw *multipart.Writer, field string, e types.FileEntry) error {
	if e.Source == nil {
		return &PartError{Name: e.Name, Err: errors.New("no content source")}
	}
	part, err := mw.CreateFormFile(field, e.Name)
	if err != nil {
		return fmt.Errorf("creating part for %s: %w", e.Name, err)
	}

	rc, err := e.Source.Open()
	if err != nil {
		return &PartError{Name: e.Name, Err: err}
	}
	defer rc.Close()

	if _, err := io.Copy(part, rc); err != nil {
		return &PartError{Name: e.Name, Err: err}
	}
	return nil
}
