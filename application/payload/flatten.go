package payload

import "formpilot/domain/entities"

// Flatten returns the leaf nodes of the forest depth-first, left to right, in
// declaration order. Children are visited sections, then groups, then fields.
// A group whose collections are all empty is returned as a leaf.
func Flatten(nodes []entities.TemplateNode) []entities.TemplateNode {
	leaves := make([]entities.TemplateNode, 0, len(nodes))
	for _, node := range nodes {
		leaves = appendLeaves(leaves, node)
	}
	return leaves
}

func appendLeaves(leaves []entities.TemplateNode, node entities.TemplateNode) []entities.TemplateNode {
	if node.IsLeaf() {
		return append(leaves, node)
	}
	for _, children := range node.ChildCollections() {
		for _, child := range children {
			leaves = appendLeaves(leaves, child)
		}
	}
	return leaves
}
