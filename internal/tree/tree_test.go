package tree

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/whyline-dev/whyline/internal/models"
)

func node(id uint, parentID *uint, order int, content string) models.WhyNode {
	return models.WhyNode{
		BaseModel: models.BaseModel{ID: id},
		RcaID:     1,
		ParentID:  parentID,
		NodeType:  models.NodeTypeWhy,
		Content:   content,
		Order:     order,
	}
}

func ptr(v uint) *uint { return &v }

func TestRenderEmpty(t *testing.T) {
	rendered := Render(nil)
	require.Empty(t, rendered)
}

func TestRenderSiblingOrder(t *testing.T) {
	nodes := []models.WhyNode{
		node(3, nil, 2, "C"),
		node(1, nil, 0, "A"),
		node(2, nil, 1, "B"),
	}

	rendered := Render(nodes)

	require.Len(t, rendered, 3)
	require.Equal(t, "A", rendered[0].Content)
	require.Equal(t, "B", rendered[1].Content)
	require.Equal(t, "C", rendered[2].Content)
}

func TestRenderNestsChildrenInOrder(t *testing.T) {
	nodes := []models.WhyNode{
		node(1, nil, 0, "root"),
		node(4, ptr(1), 1, "second child"),
		node(2, ptr(1), 0, "first child"),
		node(5, ptr(2), 0, "grandchild"),
		node(3, nil, 1, "other root"),
	}

	rendered := Render(nodes)

	require.Len(t, rendered, 2)
	require.Equal(t, "root", rendered[0].Content)
	require.Equal(t, "other root", rendered[1].Content)

	children := rendered[0].Children
	require.Len(t, children, 2)
	require.Equal(t, "first child", children[0].Content)
	require.Equal(t, "second child", children[1].Content)

	require.Len(t, children[0].Children, 1)
	require.Equal(t, "grandchild", children[0].Children[0].Content)

	require.Empty(t, children[1].Children)
	require.Empty(t, rendered[1].Children)
}

func TestRenderDuplicateOrderTieBreaksByID(t *testing.T) {
	nodes := []models.WhyNode{
		node(7, nil, 0, "later insert"),
		node(2, nil, 0, "earlier insert"),
	}

	rendered := Render(nodes)

	require.Len(t, rendered, 2)
	require.Equal(t, "earlier insert", rendered[0].Content)
	require.Equal(t, "later insert", rendered[1].Content)
}

func TestRenderToleratesOrderGaps(t *testing.T) {
	// Deletes leave gaps in the append ranks; render only cares about the
	// relative order.
	nodes := []models.WhyNode{
		node(1, nil, 0, "A"),
		node(3, nil, 4, "C"),
		node(2, nil, 2, "B"),
	}

	rendered := Render(nodes)

	require.Len(t, rendered, 3)
	require.Equal(t, "A", rendered[0].Content)
	require.Equal(t, "B", rendered[1].Content)
	require.Equal(t, "C", rendered[2].Content)
}

func TestRenderMissingParentBecomesTopLevel(t *testing.T) {
	nodes := []models.WhyNode{
		node(1, nil, 0, "root"),
		node(2, ptr(99), 0, "orphan"),
	}

	rendered := Render(nodes)

	require.Len(t, rendered, 2)
}

func TestRenderIsPure(t *testing.T) {
	nodes := []models.WhyNode{
		node(2, nil, 1, "B"),
		node(1, nil, 0, "A"),
	}

	first := Render(nodes)
	second := Render(nodes)

	require.Equal(t, first, second)
	require.Equal(t, uint(2), nodes[0].ID, "input slice must not be reordered")
}

func TestSubtreeIDs(t *testing.T) {
	nodes := []models.WhyNode{
		node(1, nil, 0, "root"),
		node(2, ptr(1), 0, "child"),
		node(3, ptr(2), 0, "grandchild"),
		node(4, ptr(1), 1, "sibling"),
		node(5, nil, 1, "unrelated root"),
	}

	ids := SubtreeIDs(nodes, 1)
	require.ElementsMatch(t, []uint{1, 2, 3, 4}, ids)

	ids = SubtreeIDs(nodes, 2)
	require.ElementsMatch(t, []uint{2, 3}, ids)

	ids = SubtreeIDs(nodes, 5)
	require.Equal(t, []uint{5}, ids)
}

func TestSubtreeIDsLeaf(t *testing.T) {
	nodes := []models.WhyNode{
		node(1, nil, 0, "root"),
		node(2, ptr(1), 0, "leaf"),
	}

	require.Equal(t, []uint{2}, SubtreeIDs(nodes, 2))
}
