// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{name: "quiet drops debug", verbose: false, wantDebug: false},
		{name: "verbose keeps debug", verbose: true, wantDebug: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(&buf, tt.verbose)
			ctx := context.Background()

			log.Debug(ctx, "dbg", "a", 1)
			log.Info(ctx, "inf", "b", 2)
			log.Warn(ctx, "wrn", "c", 3)
			log.Error(ctx, "err", "d", 4)

			out := buf.String()
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("level=DEBUG")))
			assert.Contains(t, out, "level=INFO")
			assert.Contains(t, out, "msg=wrn")
			assert.Contains(t, out, "d=4")
		})
	}
}

func TestSlogLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false).With("session", "abc")
	log.Info(context.Background(), "hello", "k", "v")

	out := buf.String()
	for _, want := range []string{"msg=hello", "session=abc", "k=v"} {
		assert.Contains(t, out, want)
	}
}

func TestDiscard(t *testing.T) {
	log := Discard()
	assert.NotPanics(t, func() {
		log.Error(context.TODO(), "dropped", "k", "v")
	})
}
