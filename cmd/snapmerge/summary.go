package main

import (
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/snapmerge/internal/picker"
	"github.com/pdiddy/snapmerge/internal/session"
	"github.com/pdiddy/snapmerge/pkg/types"
)

const (
	formatText = "text"
	formatYAML = "yaml"
)

// summary is the end-of-run report printed by convert and inspect.
type summary struct {
	Session  string            `yaml:"session,omitempty"`
	Phase    string            `yaml:"phase,omitempty"`
	Files    []types.FileEntry `yaml:"files"`
	Total    int64             `yaml:"total_bytes"`
	Message  string            `yaml:"message,omitempty"`
	Artifact *artifactSummary  `yaml:"artifact,omitempty"`
}

type artifactSummary struct {
	Filename string                  `yaml:"filename"`
	Bytes    int                     `yaml:"bytes"`
	Saved    string                  `yaml:"saved,omitempty"`
	Link     string                  `yaml:"link,omitempty"`
	Report   *types.ConversionReport `yaml:"report,omitempty"`
}

func newSummary(snap session.Snapshot) summary {
	s := summary{
		Session: snap.ID,
		Phase:   snap.Phase.String(),
		Files:   snap.Files,
		Total:   snap.TotalSize(),
		Message: snap.Message,
	}
	if a := snap.Artifact; a != nil {
		s.Artifact = &artifactSummary{Filename: a.Filename, Bytes: a.Size()}
		if a.Report.Present {
			r := a.Report
			s.Artifact.Report = &r
		}
	}
	return s
}

func writeSummary(w io.Writer, format string, s summary) error {
	switch format {
	case formatYAML:
		data, err := yaml.Marshal(&s)
		if err != nil {
			return fmt.Errorf("marshaling summary: %w", err)
		}
		_, err = w.Write(data)
		return err
	case formatText, "":
		writeTextSummary(w, s)
		return nil
	default:
		return fmt.Errorf("unknown format %q (want text or yaml)", format)
	}
}

func writeTextSummary(w io.Writer, s summary) {
	if s.Phase != "" {
		fmt.Fprintf(w, "%s: %d file(s), %s\n", s.Phase, len(s.Files), picker.FormatSize(s.Total))
	} else {
		fmt.Fprintf(w, "%d file(s), %s\n", len(s.Files), picker.FormatSize(s.Total))
	}
	if s.Message != "" {
		fmt.Fprintf(w, "error: %s\n", s.Message)
	}
	a := s.Artifact
	if a == nil {
		return
	}
	if a.Report != nil {
		fmt.Fprintln(w, a.Report.Advisory())
	}
	if a.Saved != "" {
		fmt.Fprintf(w, "saved: %s (%s)\n", a.Saved, picker.FormatSize(int64(a.Bytes)))
	}
	if a.Link != "" {
		fmt.Fprintf(w, "download: %s\n", a.Link)
	}
}
