package dag

// AssignLayers places every node one row below its deepest parent and
// returns the node IDs in topological order, parents first.
//
// AssignLayers uses Kahn's algorithm: sources start at row 0 and each
// node's row is one plus the maximum row of its parents. Ties keep
// insertion order, so the result is deterministic. Existing row assignments
// are overwritten.
//
// If the graph has a cycle, the nodes on it never reach in-degree zero;
// AssignLayers then leaves the rows untouched and returns ErrGraphHasCycle.
func AssignLayers(g *DAG) ([]string, error) {
	nodes := g.Nodes()
	inDegree := make(map[string]int, len(nodes))
	rows := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))

	for _, n := range nodes {
		degree := g.InDegree(n.ID)
		inDegree[n.ID] = degree
		if degree == 0 {
			queue = append(queue, n.ID)
		}
	}

	order := make([]string, 0, len(nodes))
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		order = append(order, curr)

		for _, child := range g.Children(curr) {
			if row := rows[curr] + 1; row > rows[child] {
				rows[child] = row
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	if len(order) != len(nodes) {
		return nil, ErrGraphHasCycle
	}
	g.SetRows(rows)
	return order, nil
}

// Cycle returns the IDs of one directed cycle in g, or nil if g is acyclic.
// The first ID is repeated at the end.
func Cycle(g *DAG) []string {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int)
	var stack, found []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		color[id] = gray
		stack = append(stack, id)
		for _, child := range g.Children(id) {
			switch color[child] {
			case white:
				if dfs(child) {
					return true
				}
			case gray:
				for i, s := range stack {
					if s == child {
						found = append(append([]string{}, stack[i:]...), child)
						return true
					}
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
		return false
	}

	for _, n := range g.Nodes() {
		if color[n.ID] == white && dfs(n.ID) {
			return found
		}
	}
	return nil
}
