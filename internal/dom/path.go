package dom

// FindNodeAtDepths walks a path of child-node indices down from parent.
// It returns nil when parent is nil, the path is empty or a step is missing.
func FindNodeAtDepths(parent *Node, depths []int) *Node {
	if parent == nil || len(depths) == 0 {
		return nil
	}
	child := parent.ChildNode(depths[0])
	if child == nil || len(depths) == 1 {
		return child
	}
	return FindNodeAtDepths(child, depths[1:])
}

// Depths returns the child-node index path from ancestor down to n, or nil
// when n is not a strict descendant of ancestor.
func Depths(ancestor, n *Node) []int {
	var path []int
	for c := n; c != ancestor; c = c.parent {
		if c == nil || c.parent == nil {
			return nil
		}
		path = append([]int{c.Index()}, path...)
	}
	return path
}

// TextNodes returns the text descendants of n in document order.
func TextNodes(n *Node) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(c *Node) {
		if c.IsText() {
			out = append(out, c)
			return
		}
		for _, child := range c.children {
			walk(child)
		}
	}
	walk(n)
	return out
}

// TextOffset converts the boundary point (node, offset) inside paragraph to a
// rune offset over the paragraph's text content.
func TextOffset(paragraph, node *Node, offset int) int {
	total := 0
	for _, t := range TextNodes(paragraph) {
		if t == node {
			return total + offset
		}
		total += t.Len()
	}
	if node == paragraph {
		// Element boundary: count the text of the children before offset.
		before := 0
		for i := 0; i < offset && i < len(paragraph.children); i++ {
			before += len([]rune(paragraph.children[i].TextContent()))
		}
		return before
	}
	return total
}

// PositionAt is the inverse of TextOffset. It returns the paragraph itself
// with offset 0 when the paragraph holds no text.
func PositionAt(paragraph *Node, textOffset int) (*Node, int) {
	texts := TextNodes(paragraph)
	if len(texts) == 0 {
		return paragraph, 0
	}
	for _, t := range texts {
		if textOffset <= t.Len() {
			if textOffset < 0 {
				textOffset = 0
			}
			return t, textOffset
		}
		textOffset -= t.Len()
	}
	last := texts[len(texts)-1]
	return last, last.Len()
}

// FindParagraph returns the child of container that holds n, or nil.
func FindParagraph(container, n *Node) *Node {
	return childOf(container, n)
}

// IsStartNode reports whether n is the first descendant along the leading
// edge of its paragraph, i.e. every step up from n is a first child.
func IsStartNode(container, n *Node) bool {
	paragraph := FindParagraph(container, n)
	if paragraph == nil {
		return false
	}
	for c := n; c != paragraph; c = c.parent {
		if c.Index() != 0 {
			return false
		}
	}
	return true
}
