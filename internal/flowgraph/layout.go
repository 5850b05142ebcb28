package flowgraph

// Pixel steps between layout levels and siblings. Presentation defaults only;
// the renderer is free to rescale.
const (
	levelStepY   = 160.0
	siblingStepX = 220.0
)

// layout assigns x/y positions: nodes are layered vertically by their depth
// from the root, and the children of each node are spread horizontally,
// centered under their parent. Nodes reached again through cycle edges keep
// their original position.
func layout(g *Graph) {
	children := make(map[int][]int)
	hasParent := make(map[int]bool)
	for _, e := range g.Edges {
		fi, ok := g.index[e.From]
		if !ok {
			continue
		}
		ti, ok := g.index[e.To]
		if !ok {
			continue
		}
		// Only forward edges drive placement; back edges into an earlier
		// level would otherwise drag a node under two parents.
		if g.Nodes[ti].Depth > g.Nodes[fi].Depth && !hasParent[ti] {
			children[fi] = append(children[fi], ti)
			hasParent[ti] = true
		}
	}

	// Roots of placement: nodes nobody placed (the flow root plus any
	// disconnected subtree roots). Spread them apart so subtrees don't
	// overlap at x=0.
	rootX := 0.0
	for i := range g.Nodes {
		if hasParent[i] {
			continue
		}
		g.Nodes[i].X = rootX
		g.Nodes[i].Y = float64(g.Nodes[i].Depth) * levelStepY
		place(g, children, i)
		rootX += siblingStepX * 4
	}
}

// place positions the children of node i centered around its x, then
// recurses. Children are one or more layout levels below their parent.
func place(g *Graph, children map[int][]int, i int) {
	kids := children[i]
	if len(kids) == 0 {
		return
	}
	offset := -siblingStepX * float64(len(kids)-1) / 2
	for n, k := range kids {
		g.Nodes[k].X = g.Nodes[i].X + offset + siblingStepX*float64(n)
		g.Nodes[k].Y = float64(g.Nodes[k].Depth) * levelStepY
		place(g, children, k)
	}
}
