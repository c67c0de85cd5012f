package payload

import (
	"testing"

	"formpilot/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(nodes []entities.TemplateNode) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	return out
}

func sampleForest() []entities.TemplateNode {
	return []entities.TemplateNode{
		{
			ID: "personal",
			Sections: []entities.TemplateNode{
				{ID: "name", Fields: []entities.TemplateNode{
					{ID: "first_name", Type: "text"},
					{ID: "last_name", Type: "text"},
				}},
			},
			Fields: []entities.TemplateNode{
				{ID: "email", Type: "email"},
			},
		},
		{ID: "essay", Type: "textarea"},
		{
			ID: "background",
			Groups: []entities.TemplateNode{
				{ID: "school", Type: "select"},
			},
			Fields: []entities.TemplateNode{
				{ID: "gpa", Type: "number"},
			},
		},
	}
}

func TestFlattenOrder(t *testing.T) {
	leaves := Flatten(sampleForest())
	assert.Equal(t, []string{"first_name", "last_name", "email", "essay", "school", "gpa"}, ids(leaves))
}

func TestFlattenVisitsCollectionsInFixedOrder(t *testing.T) {
	node := entities.TemplateNode{
		ID:       "root",
		Fields:   []entities.TemplateNode{{ID: "f"}},
		Groups:   []entities.TemplateNode{{ID: "g"}},
		Sections: []entities.TemplateNode{{ID: "s"}},
	}
	assert.Equal(t, []string{"s", "g", "f"}, ids(Flatten([]entities.TemplateNode{node})))
}

func TestFlattenIsIdempotent(t *testing.T) {
	once := Flatten(sampleForest())
	twice := Flatten(once)
	require.Len(t, twice, len(once))
	assert.Equal(t, once, twice)
}

// An empty group is kept as a leaf instead of being rejected.
func TestFlattenEmptyGroupBecomesLeaf(t *testing.T) {
	forest := []entities.TemplateNode{
		{ID: "before"},
		{ID: "empty_group", Type: "group", Fields: []entities.TemplateNode{}, Groups: nil},
		{ID: "after"},
	}
	leaves := Flatten(forest)
	assert.Equal(t, []string{"before", "empty_group", "after"}, ids(leaves))
	assert.Equal(t, "group", leaves[1].Type)
}

func TestFlattenEmptyForest(t *testing.T) {
	assert.Empty(t, Flatten(nil))
}
