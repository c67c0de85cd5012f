package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"formpilot/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root string, rel string, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newTestFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	root := t.TempDir()
	store, err := NewFileStore(root)
	require.NoError(t, err)
	return store, root
}

func TestFileStore_GetTemplate(t *testing.T) {
	store, root := newTestFileStore(t)
	writeFile(t, root, "templates/app-1.json", `{
		"name": "Application",
		"fields": [
			{"id": "personal", "sections": [
				{"id": "first_name", "label": "First name", "type": "text"},
				{"id": "country", "type": "dropdown", "options": ["NZ", {"value": "AU", "label": "Australia"}]}
			]}
		]
	}`)

	tmpl, err := store.GetTemplate(context.Background(), "app-1")
	require.NoError(t, err)

	assert.Equal(t, "app-1", tmpl.ID)
	assert.Equal(t, "Application", tmpl.Name)
	require.Len(t, tmpl.Fields, 1)
	require.Len(t, tmpl.Fields[0].Sections, 2)
	assert.Equal(t, []entities.FieldOption{
		{Value: "NZ", Label: "NZ"},
		{Value: "AU", Label: "Australia"},
	}, tmpl.Fields[0].Sections[1].Options)
}

func TestFileStore_GetTemplateNotFound(t *testing.T) {
	store, _ := newTestFileStore(t)

	_, err := store.GetTemplate(context.Background(), "missing")
	assert.ErrorIs(t, err, entities.ErrTemplateNotFound)
}

func TestFileStore_GetTemplateMalformed(t *testing.T) {
	store, root := newTestFileStore(t)
	writeFile(t, root, "templates/broken.json", `{"fields": [`)

	_, err := store.GetTemplate(context.Background(), "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, entities.ErrTemplateNotFound)
}

func TestFileStore_RejectsPathTraversal(t *testing.T) {
	store, _ := newTestFileStore(t)

	_, err := store.GetTemplate(context.Background(), "../secrets")
	assert.ErrorIs(t, err, entities.ErrInvalidRequest)

	_, err = store.GetAnswers(context.Background(), "..", "u1")
	assert.ErrorIs(t, err, entities.ErrInvalidRequest)
}

func TestFileStore_GetAnswers(t *testing.T) {
	store, root := newTestFileStore(t)
	writeFile(t, root, "answers/school-a/u1.json", `{"first_name": "Ada", "terms": true, "hobbies": ["music"]}`)

	answers, err := store.GetAnswers(context.Background(), "school-a", "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", answers["first_name"])
	assert.Equal(t, true, answers["terms"])
	assert.Equal(t, []any{"music"}, answers["hobbies"])

	none, err := store.GetAnswers(context.Background(), "school-a", "u2")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestFileStore_GetAccount(t *testing.T) {
	store, root := newTestFileStore(t)
	writeFile(t, root, "accounts/school-a/u1.json", `{"email": "ada@example.com", "username": "ada"}`)

	account, err := store.GetAccount(context.Background(), "school-a", "u1")
	require.NoError(t, err)
	assert.Equal(t, &entities.AccountRecord{Email: "ada@example.com", Username: "ada"}, account)

	none, err := store.GetAccount(context.Background(), "school-b", "u1")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestNewFileStore_MissingDir(t *testing.T) {
	_, err := NewFileStore(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
