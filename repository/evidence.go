package repository

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Evidence stores the driver's end-of-service photo on disk as
// <reference>.jpg under a configured directory.
type Evidence struct {
	dir string
}

func NewEvidence(dir string) *Evidence {
	return &Evidence{dir: dir}
}

func (e *Evidence) Save(reference, imageBase64 string) error {
	// The app sometimes sends a data URI; only the payload matters.
	if i := strings.Index(imageBase64, ","); i >= 0 && strings.HasPrefix(imageBase64, "data:") {
		imageBase64 = imageBase64[i+1:]
	}

	data, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		return fmt.Errorf("decoding evidence image for %s: %w", reference, err)
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return fmt.Errorf("creating evidence dir: %w", err)
	}

	path := filepath.Join(e.dir, reference+".jpg")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing evidence image %s: %w", path, err)
	}
	return nil
}
