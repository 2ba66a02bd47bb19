package main

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/pdiddy/snapmerge/internal/picker"
	"github.com/pdiddy/snapmerge/internal/session"
	"github.com/pdiddy/snapmerge/pkg/types"
)

// selectEntries resolves the manifest (if any) followed by the positional
// paths into one selection.
func selectEntries(p *picker.Picker, args []string, manifest string) ([]types.FileEntry, error) {
	var entries []types.FileEntry
	if manifest != "" {
		m, err := p.LoadManifest(manifest)
		if err != nil {
			return nil, err
		}
		entries = append(entries, m...)
	}
	more, err := p.Resolve(args)
	if err != nil {
		return nil, err
	}
	return append(entries, more...), nil
}

// applyDrops removes the given positions of the original selection. Indices
// are applied highest first so each refers to the selection as listed;
// duplicates are removed once and out-of-range indices are reported and
// ignored.
func applyDrops(ctx context.Context, ctrl *session.Controller, drops []int) {
	if len(drops) == 0 {
		return
	}
	uniq := make(map[int]struct{}, len(drops))
	ordered := make([]int, 0, len(drops))
	for _, d := range drops {
		if _, seen := uniq[d]; seen {
			continue
		}
		uniq[d] = struct{}{}
		ordered = append(ordered, d)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ordered)))

	for _, d := range ordered {
		if !ctrl.RemoveFile(d) {
			logger.Warn(ctx, "ignoring --drop outside the selection", "index", d)
		}
	}
}

// printSelection lists the selection the way it will be sent.
func printSelection(w io.Writer, snap session.Snapshot) {
	fmt.Fprintf(w, "Selected files (%d, %s)\n", len(snap.Files), picker.FormatSize(snap.TotalSize()))
	for i, f := range snap.Files {
		fmt.Fprintf(w, "  [%d] %s  %s\n", i, f.Name, picker.FormatSize(f.Size))
	}
}

// renderTo reports phase changes on w. Idle changes are silent; the
// selection listing covers them.
func renderTo(w io.Writer) session.Observer {
	return func(s session.Snapshot) {
		switch s.Phase {
		case session.Submitting:
			fmt.Fprintf(w, "Converting %d file(s)...\n", len(s.Files))
		case session.Succeeded:
			fmt.Fprintf(w, "PDF created (%s)\n", picker.FormatSize(int64(s.Artifact.Size())))
		case session.Failed:
			fmt.Fprintf(w, "Error: %s\n", s.Message)
		}
	}
}
