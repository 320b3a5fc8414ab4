package quantum

// Instruction is one gate application: the gate and its ordered targets.
type Instruction struct {
	Gate    Gate
	Targets []int
}

// Circuit is an ordered list of instructions over a fixed number of qubits.
// It is built with Append and may then be replayed on any register with at
// least NumQubits qubits.
type Circuit struct {
	numQubits    int
	instructions []Instruction
	maxDepth     int
	qubitDepth   []int
	depth        int
}

// CircuitOption configures a Circuit at construction.
type CircuitOption func(*Circuit)

// WithMaxDepth caps the circuit depth; Append fails with a
// *MaxDepthExceededError once an instruction would exceed it. Zero means no limit.
func WithMaxDepth(limit int) CircuitOption {
	return func(c *Circuit) { c.maxDepth = limit }
}

// NewCircuit returns an empty circuit over numQubits qubits.
func NewCircuit(numQubits int, opts ...CircuitOption) (*Circuit, error) {
	if numQubits < 1 || numQubits > MaxQubits {
		return nil, invalidDimension(numQubits)
	}
	c := &Circuit{numQubits: numQubits, qubitDepth: make([]int, numQubits)}
	for _, opt := range opts {
		opt(c)
	}
	if c.maxDepth < 0 {
		return nil, invalidParameterf("max depth %d is negative", c.maxDepth)
	}
	return c, nil
}

// Append validates and adds an instruction. Targets must match the gate
// arity, be distinct and lie in [0, NumQubits).
func (c *Circuit) Append(g Gate, targets ...int) error {
	if g.arity < 1 || g.arity > 3 {
		return invalidParameterf("gate %q has arity %d", g.name, g.arity)
	}
	if len(targets) != g.arity {
		return &DimensionMismatchError{Expected: g.arity, Actual: len(targets)}
	}
	for _, q := range targets {
		if q < 0 || q >= c.numQubits {
			return &InvalidQubitIndexError{Index: q, Size: c.numQubits}
		}
	}
	for i := range targets {
		for j := i + 1; j < len(targets); j++ {
			if targets[i] == targets[j] {
				return &SameQubitIndexError{I: targets[i], J: targets[j]}
			}
		}
	}

	level := 0
	for _, q := range targets {
		level = max(level, c.qubitDepth[q])
	}
	level++
	if c.maxDepth > 0 && level > c.maxDepth {
		return &MaxDepthExceededError{Limit: c.maxDepth}
	}
	for _, q := range targets {
		c.qubitDepth[q] = level
	}
	c.depth = max(c.depth, level)

	ts := make([]int, len(targets))
	copy(ts, targets)
	c.instructions = append(c.instructions, Instruction{Gate: g, Targets: ts})
	return nil
}

// NumQubits returns the register width the circuit was built for.
func (c *Circuit) NumQubits() int { return c.numQubits }

// MaxDepth returns the configured depth limit, zero when unlimited.
func (c *Circuit) MaxDepth() int { return c.maxDepth }

// GateCount returns the number of instructions.
func (c *Circuit) GateCount() int { return len(c.instructions) }

// Depth is the length of the critical path across qubit timelines.
func (c *Circuit) Depth() int { return c.depth }

// Instructions returns a copy of the instruction list.
func (c *Circuit) Instructions() []Instruction {
	out := make([]Instruction, len(c.instructions))
	for i, inst := range c.instructions {
		ts := make([]int, len(inst.Targets))
		copy(ts, inst.Targets)
		out[i] = Instruction{Gate: inst.Gate, Targets: ts}
	}
	return out
}

// Inverse returns the adjoint circuit: every gate daggered, in reverse order.
func (c *Circuit) Inverse() (*Circuit, error) {
	inv, err := NewCircuit(c.numQubits, WithMaxDepth(c.maxDepth))
	if err != nil {
		return nil, err
	}
	for i := len(c.instructions) - 1; i >= 0; i-- {
		inst := c.instructions[i]
		if err := inv.Append(inst.Gate.Dagger(), inst.Targets...); err != nil {
			return nil, err
		}
	}
	return inv, nil
}

// Compose appends every instruction of other to c.
func (c *Circuit) Compose(other *Circuit) error {
	if other.numQubits > c.numQubits {
		return &DimensionMismatchError{Expected: c.numQubits, Actual: other.numQubits}
	}
	for _, inst := range other.instructions {
		if err := c.Append(inst.Gate, inst.Targets...); err != nil {
			return err
		}
	}
	return nil
}
