// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// ArtifactFilename is the conventional name under which a converted PDF is saved.
const ArtifactFilename = "snapmerge-converted.pdf"

// ConversionReport carries the informational counts a conversion service may
// attach to a successful response. A zero field means the header was absent.
// The counts feed advisory text only.
type ConversionReport struct {
	// Processed is the number of files the service turned into PDF pages.
	Processed int `json:"processed" yaml:"processed"`

	// Total is the number of files the service received.
	Total int `json:"total" yaml:"total"`

	// Skipped is the number of files the service could not process.
	Skipped int `json:"skipped" yaml:"skipped"`

	// Present reports whether the service sent processed and total counts.
	Present bool `json:"present" yaml:"present"`
}

// Advisory returns a human-readable summary of the report, or "" when the
// service sent no counts.
func (r ConversionReport) Advisory() string {
	if !r.Present {
		return ""
	}
	return fmt.Sprintf("PDF created: processed %d of %d files, skipped %d", r.Processed, r.Total, r.Skipped)
}

// Artifact is the result of a successful conversion: the PDF bytes, the
// filename to save them under, and the handle that owns the downloadable
// resource while the artifact is current.
type Artifact struct {
	// Content is the full response body.
	Content []byte `json:"-" yaml:"-"`

	// ContentType is the media type reported by the service.
	ContentType string `json:"content_type" yaml:"content_type"`

	// Filename is the suggested download name (ArtifactFilename).
	Filename string `json:"filename" yaml:"filename"`

	// URL is the blob handle under which the artifact can be downloaded
	// until it is released.
	URL string `json:"url" yaml:"url"`

	// Report holds the optional processing counts.
	Report ConversionReport `json:"report" yaml:"report"`
}

// Size returns the artifact length in bytes.
func (a *Artifact) Size() int {
	if a == nil {
		return 0
	}
	return len(a.Content)
}
