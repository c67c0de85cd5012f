package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"formpilot/domain/entities"
	"formpilot/domain/interfaces"
)

// FileStore reads templates, answers and accounts from JSON files laid out as
//
//	<root>/templates/<templateId>.json
//	<root>/answers/<schoolId>/<userId>.json
//	<root>/accounts/<schoolId>/<userId>.json
type FileStore struct {
	root string
}

// NewFileStore - creates a JSON file store rooted at root
func NewFileStore(root string) (*FileStore, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open data dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("data dir %s is not a directory", root)
	}
	return &FileStore{root: root}, nil
}

func (s *FileStore) GetTemplate(ctx context.Context, id string) (*entities.Template, error) {
	path, err := s.path("templates", id)
	if err != nil {
		return nil, err
	}

	var tmpl entities.Template
	found, err := readJSON(ctx, path, &tmpl)
	if err != nil {
		return nil, fmt.Errorf("failed to load template %s: %w", id, err)
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", entities.ErrTemplateNotFound, id)
	}
	if tmpl.ID == "" {
		tmpl.ID = id
	}
	return &tmpl, nil
}

func (s *FileStore) GetAnswers(ctx context.Context, schoolID, userID string) (map[string]any, error) {
	path, err := s.path("answers", schoolID, userID)
	if err != nil {
		return nil, err
	}

	answers := make(map[string]any)
	if _, err := readJSON(ctx, path, &answers); err != nil {
		return nil, fmt.Errorf("failed to load answers: %w", err)
	}
	if answers == nil {
		answers = make(map[string]any)
	}
	return answers, nil
}

func (s *FileStore) GetAccount(ctx context.Context, schoolID, userID string) (*entities.AccountRecord, error) {
	path, err := s.path("accounts", schoolID, userID)
	if err != nil {
		return nil, err
	}

	var account entities.AccountRecord
	found, err := readJSON(ctx, path, &account)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &account, nil
}

// path joins the parts under root, rejecting ids that would escape it.
func (s *FileStore) path(kind string, ids ...string) (string, error) {
	parts := []string{s.root, kind}
	for _, id := range ids {
		if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
			return "", fmt.Errorf("%w: bad identifier %q", entities.ErrInvalidRequest, id)
		}
		parts = append(parts, id)
	}
	parts[len(parts)-1] += ".json"
	return filepath.Join(parts...), nil
}

// readJSON decodes path into v. A missing file reports found=false.
func readJSON(ctx context.Context, path string, v any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return true, nil
}

var _ interfaces.TemplateStore = (*FileStore)(nil)
