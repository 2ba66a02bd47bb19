// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file is one secret: the filename is the key and the trimmed file
// contents are the value.
//
// Supported key files: snapmerge-api-token.
package secrets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/snapmerge/internal/logging"
)

// DefaultDir is where the CLI looks for secrets.
const DefaultDir = ".secrets"

// KeyAPIToken names the bearer token sent to the conversion service.
const KeyAPIToken = "snapmerge-api-token"

// Load reads all files in dir and returns a map of filename to trimmed
// contents. A missing directory is not an error; Load returns an empty map.
// Unreadable files are logged and skipped.
func Load(dir string, log logging.Logger) (map[string]string, error) {
	if log == nil {
		log = logging.Discard()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn(context.Background(), "could not read secret", "name", name, "error", err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Lookup returns the secret for key, preferring an explicit value when one
// is given (from a flag or config file).
func Lookup(secrets map[string]string, key, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return secrets[key]
}
