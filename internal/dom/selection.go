package dom

// Range is a pair of boundary points. Offsets count runes inside text nodes
// and child nodes inside elements.
type Range struct {
	StartContainer *Node
	StartOffset    int
	EndContainer   *Node
	EndOffset      int
}

// Selection returns the live caret/selection range of the document.
func (d *Document) Selection() *Range { return d.selection }

// Caret returns the focus boundary point of the selection.
func (d *Document) Caret() (*Node, int) {
	return d.selection.EndContainer, d.selection.EndOffset
}

// MoveCursorToOffset collapses the selection at offset inside n.
func (d *Document) MoveCursorToOffset(n *Node, offset int) {
	if n == nil {
		return
	}
	d.selection.SetStart(n, offset)
	d.selection.Collapse(true)
}

// MoveCursorToEnd collapses the selection at the end of the last text inside n.
func (d *Document) MoveCursorToEnd(n *Node) {
	if n == nil {
		return
	}
	if texts := TextNodes(n); len(texts) > 0 {
		last := texts[len(texts)-1]
		d.MoveCursorToOffset(last, last.Len())
		return
	}
	d.MoveCursorToOffset(n, n.Len())
}

// MoveCursorToStart collapses the selection at the start of the first text inside n.
func (d *Document) MoveCursorToStart(n *Node) {
	if n == nil {
		return
	}
	if texts := TextNodes(n); len(texts) > 0 {
		d.MoveCursorToOffset(texts[0], 0)
		return
	}
	d.MoveCursorToOffset(n, 0)
}

func clampOffset(n *Node, offset int) int {
	if offset < 0 {
		return 0
	}
	if l := n.Len(); offset > l {
		return l
	}
	return offset
}

func (r *Range) SetStart(n *Node, offset int) {
	r.StartContainer, r.StartOffset = n, clampOffset(n, offset)
}

func (r *Range) SetEnd(n *Node, offset int) {
	r.EndContainer, r.EndOffset = n, clampOffset(n, offset)
}

// Collapse moves one boundary onto the other.
func (r *Range) Collapse(toStart bool) {
	if toStart {
		r.EndContainer, r.EndOffset = r.StartContainer, r.StartOffset
		return
	}
	r.StartContainer, r.StartOffset = r.EndContainer, r.EndOffset
}

func (r *Range) Collapsed() bool {
	return r.StartContainer == r.EndContainer && r.StartOffset == r.EndOffset
}

// CommonAncestor returns the deepest node containing both boundaries.
func (r *Range) CommonAncestor() *Node {
	for a := r.StartContainer; a != nil; a = a.parent {
		if a.Contains(r.EndContainer) {
			return a
		}
	}
	return nil
}

// DeleteContents removes everything between the boundaries and collapses the
// range to its start.
func (r *Range) DeleteContents() {
	if r.Collapsed() || r.StartContainer == nil || r.EndContainer == nil {
		return
	}
	sc, ec := r.StartContainer, r.EndContainer
	so, eo := clampOffset(sc, r.StartOffset), clampOffset(ec, r.EndOffset)

	if sc == ec && sc.IsText() {
		if so > eo {
			so, eo = eo, so
		}
		runes := []rune(sc.value)
		sc.SetValue(string(runes[:so]) + string(runes[eo:]))
		r.Collapse(true)
		return
	}

	ca := r.CommonAncestor()
	if ca == nil {
		return
	}
	startChild, endChild := childOf(ca, sc), childOf(ca, ec)

	first, last := so, eo
	if startChild != nil {
		first = startChild.Index() + 1
	}
	if endChild != nil {
		last = endChild.Index()
	}
	if startChild != nil {
		truncateAfter(ca, sc, so)
	}
	if endChild != nil {
		truncateBefore(ca, ec, eo)
	}
	for i := last - 1; i >= first; i-- {
		ca.removeAt(i)
	}
	r.Collapse(true)
}

// childOf returns the child of ancestor that contains n, or nil when n is ancestor.
func childOf(ancestor, n *Node) *Node {
	for c := n; c != nil; c = c.parent {
		if c.parent == ancestor {
			return c
		}
	}
	return nil
}

// truncateAfter drops everything after (n, offset) up to the child of stop.
func truncateAfter(stop, n *Node, offset int) {
	if n.IsText() {
		n.SetValue(string([]rune(n.value)[:offset]))
	} else {
		for len(n.children) > offset {
			n.removeAt(len(n.children) - 1)
		}
	}
	for c := n; c.parent != nil && c.parent != stop; c = c.parent {
		p := c.parent
		for len(p.children) > c.Index()+1 {
			p.removeAt(len(p.children) - 1)
		}
	}
}

// truncateBefore drops everything before (n, offset) up to the child of stop.
func truncateBefore(stop, n *Node, offset int) {
	if n.IsText() {
		n.SetValue(string([]rune(n.value)[offset:]))
	} else {
		for i := 0; i < offset && len(n.children) > 0; i++ {
			n.removeAt(0)
		}
	}
	for c := n; c.parent != nil && c.parent != stop; c = c.parent {
		for c.Index() > 0 {
			c.parent.removeAt(0)
		}
	}
}
