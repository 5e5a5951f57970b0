package domain

// ChildIndex maps a category id to the ids of its direct children. A nil map
// is a valid empty index.
type ChildIndex map[int64][]int64

// BuildChildIndex groups categories by parent. Root categories (nil parent)
// are not indexed; they are listed separately.
func BuildChildIndex(categories []*Category) ChildIndex {
	index := make(ChildIndex, len(categories))
	for _, c := range categories {
		if c.ParentID != nil {
			index[*c.ParentID] = append(index[*c.ParentID], c.ID)
		}
	}
	return index
}

// Subtree returns root followed by every transitive descendant, each id
// exactly once. Traversal is depth-first over the child index and keeps a
// visited set, so a corrupted parent chain cannot loop it.
func Subtree(root int64, index ChildIndex) []int64 {
	visited := map[int64]bool{root: true}
	result := []int64{root}
	stack := []int64{root}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, child := range index[current] {
			if visited[child] {
				continue
			}
			visited[child] = true
			result = append(result, child)
			stack = append(stack, child)
		}
	}
	return result
}

// WouldCycle reports whether re-parenting category id under parentID closes a
// cycle. parents maps each category to its parent id; roots are absent.
func WouldCycle(id, parentID int64, parents map[int64]int64) bool {
	if id == parentID {
		return true
	}
	seen := map[int64]bool{}
	current := parentID
	for {
		if current == id {
			return true
		}
		if seen[current] {
			// Pre-existing corruption above the insertion point.
			return true
		}
		seen[current] = true
		next, ok := parents[current]
		if !ok {
			return false
		}
		current = next
	}
}
