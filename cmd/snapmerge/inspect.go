package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/snapmerge/internal/picker"
	"github.com/pdiddy/snapmerge/pkg/types"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [files or directories...]",
	Short: "List the files convert would send",
	Long: `Inspect resolves paths and manifests exactly as convert does and lists the
resulting selection with sizes, without contacting the conversion service.
Use --save-manifest to store the selection for a later convert --manifest.`,
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().String("manifest", "", "YAML manifest listing files to select before any paths given")
	inspectCmd.Flags().String("save-manifest", "", "write the resolved selection to a manifest file")
	inspectCmd.Flags().String("format", formatText, "output format: text or yaml")

	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	manifest, _ := cmd.Flags().GetString("manifest")
	saveTo, _ := cmd.Flags().GetString("save-manifest")
	format, _ := cmd.Flags().GetString("format")

	p := picker.OS()
	entries, err := selectEntries(p, args, manifest)
	if err != nil {
		return err
	}

	if saveTo != "" {
		if err := p.WriteManifest(saveTo, entries); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved manifest: %s\n", saveTo)
	}

	if format == formatYAML {
		return writeSummary(cmd.OutOrStdout(), format, inspectSummary(entries))
	}
	out := cmd.OutOrStdout()
	var total int64
	for i, e := range entries {
		total += e.Size
		fmt.Fprintf(out, "[%d] %s  %s\n", i, e.Name, picker.FormatSize(e.Size))
	}
	fmt.Fprintf(out, "%d file(s), %s\n", len(entries), picker.FormatSize(total))
	return nil
}

func inspectSummary(entries []types.FileEntry) summary {
	s := summary{Files: entries}
	for _, e := range entries {
		s.Total += e.Size
	}
	return s
}
