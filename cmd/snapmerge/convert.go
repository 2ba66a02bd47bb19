package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/pdiddy/snapmerge/internal/blobstore"
	"github.com/pdiddy/snapmerge/internal/convert"
	"github.com/pdiddy/snapmerge/internal/picker"
	"github.com/pdiddy/snapmerge/internal/session"
	"github.com/pdiddy/snapmerge/internal/sink"
	"github.com/pdiddy/snapmerge/internal/telemetry"
	"github.com/pdiddy/snapmerge/pkg/types"
)

const stdoutPath = "-"

var convertCmd = &cobra.Command{
	Use:   "convert [files or directories...]",
	Short: "Convert files into one PDF",
	Long: `Convert sends the selected files to the conversion service in one request
and saves the returned PDF as snapmerge-converted.pdf.

Files are sent in the order given; a directory contributes its files in name
order. No file is filtered out locally. Use --drop to leave out entries by
their position in the listing before the upload starts.`,
	RunE: runConvert,
}

var serveCmd = &cobra.Command{
	Use:   "serve [files or directories...]",
	Short: "Convert files and offer the PDF as a local download link",
	Long: `Serve runs a conversion like convert, then keeps a local HTTP server up
with a download link for the PDF until interrupted. The link stops working
once the server exits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConversion(cmd, args, true)
	},
}

func init() {
	for _, c := range []*cobra.Command{convertCmd, serveCmd} {
		c.Flags().String("manifest", "", "YAML manifest listing files to select before any paths given")
		c.Flags().IntSlice("drop", nil, "positions in the selection listing to remove before submitting")
		c.Flags().String("format", formatText, "summary format: text or yaml")
		c.Flags().String("metrics-file", "", "write Prometheus metrics for this run to a file")
		rootCmd.AddCommand(c)
	}
	convertCmd.Flags().StringP("output", "o", "", `artifact path; "-" writes the PDF to stdout (default: <output-dir>/snapmerge-converted.pdf)`)
	convertCmd.Flags().String("output-dir", "", "directory to save the PDF in")
	serveCmd.Flags().String("addr", "", "listen address for the download server")
}

func runConvert(cmd *cobra.Command, args []string) error {
	return runConversion(cmd, args, false)
}

// conversion holds one CLI run's wiring.
type conversion struct {
	cfg     types.ClientConfig
	blobs   *blobstore.Store
	ctrl    *session.Controller
	metrics *telemetry.Metrics
	format  string
}

func runConversion(cmd *cobra.Command, args []string, serve bool) error {
	cfg := loadConfig()
	overrideConfig(cmd, &cfg)

	manifest, _ := cmd.Flags().GetString("manifest")
	drops, _ := cmd.Flags().GetIntSlice("drop")
	format, _ := cmd.Flags().GetString("format")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	entries, err := selectEntries(picker.OS(), args, manifest)
	if err != nil {
		return err
	}

	run := newConversion(cfg, cmd.ErrOrStderr(), format)
	defer run.close(ctx)

	run.ctrl.SelectFiles(entries)
	applyDrops(ctx, run.ctrl, drops)
	printSelection(cmd.ErrOrStderr(), run.ctrl.Snapshot())

	if serve {
		return run.serve(ctx, cmd.OutOrStdout())
	}
	output, _ := cmd.Flags().GetString("output")
	return run.convert(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), output)
}

// overrideConfig applies command-local flags on top of loaded config.
func overrideConfig(cmd *cobra.Command, cfg *types.ClientConfig) {
	if f := cmd.Flags().Lookup("output-dir"); f != nil && f.Changed {
		cfg.Download.OutputDir = f.Value.String()
	}
	if f := cmd.Flags().Lookup("addr"); f != nil && f.Changed {
		cfg.Sink.Addr = f.Value.String()
	}
	if f := cmd.Flags().Lookup("metrics-file"); f != nil && f.Changed {
		cfg.Telemetry.MetricsFile = f.Value.String()
	}
}

func newConversion(cfg types.ClientConfig, status io.Writer, format string) *conversion {
	metrics := telemetry.NewMetrics(cfg.Telemetry, nil)
	client := convert.NewClient(&http.Client{Timeout: cfg.Service.Timeout}, cfg.Service, apiToken(), logger)
	blobs := blobstore.New()
	ctrl := session.New(client, blobs,
		session.WithLogger(logger),
		session.WithMetrics(metrics),
		session.WithTracer(telemetry.Tracer()),
		session.WithObserver(renderTo(status)),
	)
	return &conversion{cfg: cfg, blobs: blobs, ctrl: ctrl, metrics: metrics, format: format}
}

// close tears the session down and flushes metrics.
func (c *conversion) close(ctx context.Context) {
	c.ctrl.Close()
	if c.cfg.Telemetry.MetricsFile == "" {
		return
	}
	if err := c.metrics.WriteTextfile(c.cfg.Telemetry.MetricsFile); err != nil {
		logger.Warn(ctx, "could not write metrics file", "path", c.cfg.Telemetry.MetricsFile, "error", err)
	}
}

// convert submits, then saves the artifact to disk or writes it to stdout.
func (c *conversion) convert(ctx context.Context, stdout, stderr io.Writer, output string) error {
	if output == stdoutPath {
		if f, ok := stdout.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return fmt.Errorf("refusing to write a PDF to a terminal; redirect stdout or use --output <path>")
		}
	}

	if err := c.ctrl.Submit(ctx); err != nil {
		return err
	}
	snap := c.ctrl.Snapshot()
	sum := newSummary(snap)

	switch output {
	case stdoutPath:
		if err := sink.Write(stdout, snap.Artifact); err != nil {
			return err
		}
		return writeSummary(stderr, c.format, sum)
	case "":
	default:
		c.cfg.Download = downloadTarget(output)
	}

	path, err := sink.Save(snap.Artifact, c.cfg.Download)
	if err != nil {
		return err
	}
	sum.Artifact.Saved = path
	return writeSummary(stdout, c.format, sum)
}

// serve starts the download server, submits, and keeps serving the link
// until ctx ends. A failed submission stops the server.
func (c *conversion) serve(ctx context.Context, stdout io.Writer) error {
	srv := sink.NewServer(c.blobs, sink.Filename(nil, c.cfg.Download), logger)
	addrCh := make(chan net.Addr, 1)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(gctx, c.cfg.Sink.Addr, func(a net.Addr) { addrCh <- a })
	})
	g.Go(func() error {
		var addr net.Addr
		select {
		case addr = <-addrCh:
		case <-gctx.Done():
			return nil
		}
		if err := c.ctrl.Submit(gctx); err != nil {
			return err
		}
		snap := c.ctrl.Snapshot()
		sum := newSummary(snap)
		sum.Artifact.Link = sink.Link("http://"+addr.String(), snap.Artifact)
		if err := writeSummary(stdout, c.format, sum); err != nil {
			return err
		}
		logger.Info(gctx, "serving download until interrupted", "link", sum.Artifact.Link)
		return nil
	})
	return g.Wait()
}

// downloadTarget splits an --output path into a download config.
func downloadTarget(output string) types.DownloadConfig {
	return types.DownloadConfig{
		OutputDir: filepath.Dir(output),
		Filename:  filepath.Base(output),
	}
}
