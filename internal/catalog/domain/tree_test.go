package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v int64) *int64 { return &v }

func sampleCategories() []*Category {
	// A
	// ├── B
	// │   └── D
	// └── C
	// E
	return []*Category{
		{ID: 1, Name: "A"},
		{ID: 2, Name: "B", ParentID: ptr(1)},
		{ID: 3, Name: "C", ParentID: ptr(1)},
		{ID: 4, Name: "D", ParentID: ptr(2)},
		{ID: 5, Name: "E"},
	}
}

func TestBuildChildIndex(t *testing.T) {
	index := BuildChildIndex(sampleCategories())

	assert.ElementsMatch(t, []int64{2, 3}, index[1])
	assert.ElementsMatch(t, []int64{4}, index[2])
	assert.Empty(t, index[5])
}

func TestSubtree(t *testing.T) {
	index := BuildChildIndex(sampleCategories())

	got := Subtree(1, index)
	assert.Equal(t, int64(1), got[0], "root comes first")
	assert.ElementsMatch(t, []int64{1, 2, 3, 4}, got)

	assert.Equal(t, []int64{2, 4}, Subtree(2, index))
	assert.Equal(t, []int64{5}, Subtree(5, index))
}

func TestSubtreeLeafAndUnknown(t *testing.T) {
	index := BuildChildIndex(sampleCategories())

	assert.Equal(t, []int64{4}, Subtree(4, index))
	assert.Equal(t, []int64{99}, Subtree(99, index), "unknown id yields just itself")
}

func TestSubtreeTerminatesOnCorruptedIndex(t *testing.T) {
	// 1 -> 2 -> 1 would loop a naive traversal.
	index := ChildIndex{1: {2}, 2: {1}}

	got := Subtree(1, index)
	require.Len(t, got, 2)
	assert.ElementsMatch(t, []int64{1, 2}, got)
}

func TestWouldCycle(t *testing.T) {
	parents := map[int64]int64{2: 1, 3: 1, 4: 2}

	assert.True(t, WouldCycle(1, 1, parents), "self-parenting")
	assert.True(t, WouldCycle(1, 4, parents), "ancestor under its own descendant")
	assert.True(t, WouldCycle(2, 4, parents))
	assert.False(t, WouldCycle(4, 3, parents), "re-parenting to a sibling branch")
	assert.False(t, WouldCycle(6, 1, parents), "fresh category under a root")
}

func TestPriceSuffixDisplay(t *testing.T) {
	assert.Equal(t, "руб", SuffixNone.Display())
	assert.Equal(t, "за час", SuffixHour.Display())
	assert.Equal(t, "за м2", SuffixM2.Display())
	assert.Equal(t, "XX", PriceSuffix("XX").Display(), "unknown code falls back to itself")
}

func TestValidStatus(t *testing.T) {
	for _, s := range []ProductStatus{StatusActive, StatusArchived, StatusOnModerate, StatusCanceled} {
		assert.True(t, ValidStatus(s))
	}
	assert.False(t, ValidStatus("ACTIVE"))
	assert.False(t, ValidStatus(""))
}
