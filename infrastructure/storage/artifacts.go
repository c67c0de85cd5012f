package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"formpilot/domain/entities"
	"formpilot/domain/interfaces"
)

type fileArtifactStore struct {
	dir string
}

// NewFileArtifactStore - creates an artifact store rooted at dir, creating it if needed
func NewFileArtifactStore(dir string) (interfaces.ArtifactStore, error) {
	if dir == "" {
		homeDir, _ := os.UserHomeDir()
		dir = filepath.Join(homeDir, ".formpilot", "artifacts")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create artifacts dir: %w", err)
	}
	return &fileArtifactStore{dir: dir}, nil
}

// Capture - writes <runID>.png and <runID>.html. Paths of files that were
// written are returned even when the other capture failed.
func (s *fileArtifactStore) Capture(ctx context.Context, page interfaces.Page, runID string) (entities.Artifacts, error) {
	var artifacts entities.Artifacts
	if runID == "" {
		return artifacts, fmt.Errorf("run id is required")
	}

	var errs []error

	screenshotPath := filepath.Join(s.dir, runID+".png")
	if err := page.Screenshot(ctx, screenshotPath); err != nil {
		errs = append(errs, fmt.Errorf("screenshot: %w", err))
	} else {
		artifacts.ScreenshotPath = screenshotPath
	}

	htmlPath := filepath.Join(s.dir, runID+".html")
	html, err := page.Content(ctx)
	if err == nil {
		err = os.WriteFile(htmlPath, []byte(html), 0644)
	}
	if err != nil {
		errs = append(errs, fmt.Errorf("raw html: %w", err))
	} else {
		artifacts.RawHTMLPath = htmlPath
	}

	return artifacts, errors.Join(errs...)
}
