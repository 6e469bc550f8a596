// Package tree assembles the flat why-node rows of one RCA into their nested
// form and answers subtree membership for cascading deletes. Everything here
// is a pure function of the node set passed in; callers load the rows and own
// the transaction.
package tree

import (
	"sort"

	"github.com/whyline-dev/whyline/internal/models"
	"github.com/whyline-dev/whyline/internal/types"
)

// Render builds the full tree for one RCA's node set. Siblings are ordered by
// their append rank with the node id as a stable tie-break, so duplicate ranks
// (possible under concurrent inserts to the same parent) still render
// deterministically. A node whose parent is missing from the set is rendered
// top-level rather than dropped.
func Render(nodes []models.WhyNode) []types.TreeNodeResponse {
	sorted := sortSiblings(nodes)

	present := make(map[uint]bool, len(sorted))

	for _, node := range sorted {
		present[node.ID] = true
	}

	children := make(map[uint][]models.WhyNode)
	var roots []models.WhyNode

	for _, node := range sorted {
		if node.ParentID == nil || !present[*node.ParentID] {
			roots = append(roots, node)
			continue
		}
		children[*node.ParentID] = append(children[*node.ParentID], node)
	}

	rendered := make([]types.TreeNodeResponse, 0, len(roots))

	for _, root := range roots {
		rendered = append(rendered, renderNode(root, children))
	}

	return rendered
}

func renderNode(node models.WhyNode, children map[uint][]models.WhyNode) types.TreeNodeResponse {
	rendered := types.TreeNodeResponse{
		NodeResponse: types.NewNodeResponse(node),
		Children:     []types.TreeNodeResponse{},
	}

	for _, child := range children[node.ID] {
		rendered.Children = append(rendered.Children, renderNode(child, children))
	}

	return rendered
}

// SubtreeIDs returns rootID plus the ids of every descendant of rootID within
// nodes, walking the parent linkage breadth-first. Used to collect the rows a
// cascading delete must remove in one transaction.
func SubtreeIDs(nodes []models.WhyNode, rootID uint) []uint {
	children := make(map[uint][]uint)

	for _, node := range nodes {
		if node.ParentID != nil {
			children[*node.ParentID] = append(children[*node.ParentID], node.ID)
		}
	}

	ids := []uint{rootID}

	for i := 0; i < len(ids); i++ {
		ids = append(ids, children[ids[i]]...)
	}

	return ids
}

func sortSiblings(nodes []models.WhyNode) []models.WhyNode {
	sorted := make([]models.WhyNode, len(nodes))
	copy(sorted, nodes)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Order != sorted[j].Order {
			return sorted[i].Order < sorted[j].Order
		}
		return sorted[i].ID < sorted[j].ID
	})

	return sorted
}
