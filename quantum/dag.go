package quantum

// DAGNode is one instruction in the dependency graph of a circuit. An
// instruction depends on the previous instruction touching each of its targets.
type DAGNode struct {
	Index        int   // position in the circuit's instruction list
	Targets      []int // qubits the instruction acts on
	Dependencies []int // indices of nodes that must run first
	Layer        int   // zero-based moment the instruction can run in
}

// CircuitDAG is the dependency view of a circuit. Nodes are stored in
// instruction order, which is already a topological order.
type CircuitDAG struct {
	Nodes     []*DAGNode
	NumQubits int
}

// DAG builds the dependency graph of c.
func (c *Circuit) DAG() *CircuitDAG {
	dag := &CircuitDAG{Nodes: make([]*DAGNode, len(c.instructions)), NumQubits: c.numQubits}
	lastOnQubit := make([]int, c.numQubits)
	for q := range lastOnQubit {
		lastOnQubit[q] = -1
	}

	for i, inst := range c.instructions {
		node := &DAGNode{Index: i, Targets: inst.Targets}
		for _, q := range inst.Targets {
			prev := lastOnQubit[q]
			if prev < 0 {
				continue
			}
			if !containsInt(node.Dependencies, prev) {
				node.Dependencies = append(node.Dependencies, prev)
			}
			node.Layer = max(node.Layer, dag.Nodes[prev].Layer+1)
		}
		for _, q := range inst.Targets {
			lastOnQubit[q] = i
		}
		dag.Nodes[i] = node
	}
	return dag
}

// Roots returns the nodes without dependencies.
func (dag *CircuitDAG) Roots() []*DAGNode {
	var roots []*DAGNode
	for _, n := range dag.Nodes {
		if len(n.Dependencies) == 0 {
			roots = append(roots, n)
		}
	}
	return roots
}

// Layers groups instruction indices by the moment they can run in.
func (dag *CircuitDAG) Layers() [][]int {
	var layers [][]int
	for _, n := range dag.Nodes {
		for len(layers) <= n.Layer {
			layers = append(layers, nil)
		}
		layers[n.Layer] = append(layers[n.Layer], n.Index)
	}
	return layers
}

// Depth is the number of layers.
func (dag *CircuitDAG) Depth() int {
	depth := 0
	for _, n := range dag.Nodes {
		depth = max(depth, n.Layer+1)
	}
	return depth
}

// CriticalPath returns one longest dependency chain, first instruction first.
func (dag *CircuitDAG) CriticalPath() []int {
	if len(dag.Nodes) == 0 {
		return nil
	}
	tail := dag.Nodes[0]
	for _, n := range dag.Nodes {
		if n.Layer > tail.Layer {
			tail = n
		}
	}
	path := []int{tail.Index}
	for tail.Layer > 0 {
		for _, dep := range tail.Dependencies {
			if dag.Nodes[dep].Layer == tail.Layer-1 {
				tail = dag.Nodes[dep]
				break
			}
		}
		path = append(path, tail.Index)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// NodeAt returns the node occupying qubit at the given layer, or nil.
func (dag *CircuitDAG) NodeAt(layer, qubit int) *DAGNode {
	for _, n := range dag.Nodes {
		if n.Layer == layer && containsInt(n.Targets, qubit) {
			return n
		}
	}
	return nil
}

// Spans reports whether qubit lies between the lowest and highest target of n.
func (n *DAGNode) Spans(qubit int) bool {
	lo, hi := n.Targets[0], n.Targets[0]
	for _, q := range n.Targets {
		lo, hi = min(lo, q), max(hi, q)
	}
	return qubit >= lo && qubit <= hi
}

func containsInt(slice []int, val int) bool {
	for _, item := range slice {
		if item == val {
			return true
		}
	}
	return false
}
