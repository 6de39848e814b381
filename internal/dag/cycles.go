package dag

// Cycles returns every cycle found by a depth-first traversal with a
// recursion stack. Each back edge u → v, where v is still on the stack,
// yields the stack slice from v to u. Roots are tried in insertion order
// and edges in insertion order, so the result is deterministic. An acyclic
// graph, including one with diamond-shaped reconvergence, yields nil.
//
// Every cycle in the graph contains at least one back edge, so removing
// the nodes of all returned cycles leaves an acyclic graph.
func (g *Graph) Cycles() [][]string {
	const (
		white = 0 // unvisited
		gray  = 1 // on the recursion stack
		black = 2 // finished
	)

	color := make(map[string]int, len(g.order))
	var stack []string
	var cycles [][]string

	var dfs func(node string)
	dfs = func(node string) {
		color[node] = gray
		stack = append(stack, node)
		for _, next := range g.out[node] {
			switch color[next] {
			case gray:
				cycles = append(cycles, stackFrom(stack, next))
			case white:
				dfs(next)
			}
		}
		stack = stack[:len(stack)-1]
		color[node] = black
	}

	for _, id := range g.order {
		if color[id] == white {
			dfs(id)
		}
	}
	return cycles
}

// CycleMembers returns the set of nodes that appear on any cycle.
func (g *Graph) CycleMembers() map[string]bool {
	members := make(map[string]bool)
	for _, c := range g.Cycles() {
		for _, id := range c {
			members[id] = true
		}
	}
	return members
}

// stackFrom copies the suffix of stack starting at the last occurrence of
// start.
func stackFrom(stack []string, start string) []string {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == start {
			cycle := make([]string, len(stack)-i)
			copy(cycle, stack[i:])
			return cycle
		}
	}
	return nil
}
