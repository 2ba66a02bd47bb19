// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pdiddy/snapmerge/internal/blobstore"
	"github.com/pdiddy/snapmerge/internal/logging"
	"github.com/pdiddy/snapmerge/pkg/types"
)

// DefaultAddr is the listen address for the download server.
const DefaultAddr = "127.0.0.1:8765"

const shutdownTimeout = 5 * time.Second

// Server serves live blobs as file downloads. A revoked blob is gone: its
// link answers 404.
type Server struct {
	blobs    *blobstore.Store
	filename string
	log      logging.Logger
}

// NewServer creates a download server over blobs. Downloads are offered
// under filename, or ArtifactFilename when empty.
func NewServer(blobs *blobstore.Store, filename string, log logging.Logger) *Server {
	if filename == "" {
		filename = types.ArtifactFilename
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Server{blobs: blobs, filename: filename, log: log}
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.health)
	r.Get("/artifacts/{id}", s.download)
	return r
}

// Link returns the download URL for an artifact, relative to base
// (e.g. "http://127.0.0.1:8765").
func Link(base string, a *types.Artifact) string {
	if a == nil {
		return ""
	}
	return strings.TrimRight(base, "/") + "/artifacts/" + blobstore.ID(a.URL)
}

// ListenAndServe listens on addr and serves until ctx is done, then shuts
// down gracefully. ready, when non-nil, receives the bound address.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready func(net.Addr)) error {
	if addr == "" {
		addr = DefaultAddr
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if ready != nil {
		ready(ln.Addr())
	}
	s.log.Info(ctx, "download server listening", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down download server: %w", err)
	}
	s.log.Info(ctx, "download server stopped")
	return nil
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

func (s *Server) download(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	blob, err := s.blobs.Open(blobstore.URL(id))
	if err != nil {
		s.log.Debug(r.Context(), "download miss", "id", id)
		writeError(w, http.StatusNotFound, "artifact not found")
		return
	}

	ct := blob.ContentType
	if ct == "" {
		ct = "application/pdf"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": s.filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(blob.Content)))
	w.WriteHeader(http.StatusOK)
	w.Write(blob.Content)

	s.log.Info(r.Context(), "artifact downloaded", "id", id, "bytes", len(blob.Content))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
