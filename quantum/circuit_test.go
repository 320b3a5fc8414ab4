package quantum

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCircuitAppend(t *testing.T) {
	Convey("Given an empty three-qubit circuit", t, func() {
		c, err := NewCircuit(3)
		So(err, ShouldBeNil)
		So(c.GateCount(), ShouldEqual, 0)
		So(c.Depth(), ShouldEqual, 0)

		Convey("Parallel gates share a layer", func() {
			So(c.Append(H(), 0), ShouldBeNil)
			So(c.Append(H(), 1), ShouldBeNil)
			So(c.Append(X(), 2), ShouldBeNil)
			So(c.Depth(), ShouldEqual, 1)
			So(c.GateCount(), ShouldEqual, 3)
		})

		Convey("A two-qubit gate waits for both qubits", func() {
			So(c.Append(H(), 0), ShouldBeNil)
			So(c.Append(H(), 0), ShouldBeNil)
			So(c.Append(CNOT(), 0, 1), ShouldBeNil)
			So(c.Append(X(), 1), ShouldBeNil)
			So(c.Depth(), ShouldEqual, 4)
		})

		Convey("Invalid instructions are rejected and not recorded", func() {
			So(errors.Is(c.Append(X(), 3), ErrInvalidQubitIndex), ShouldBeTrue)
			So(errors.Is(c.Append(CNOT(), 1, 1), ErrSameQubitIndex), ShouldBeTrue)
			So(errors.Is(c.Append(CNOT(), 1), ErrDimensionMismatch), ShouldBeTrue)
			So(c.GateCount(), ShouldEqual, 0)
		})

		Convey("Targets are copied on append", func() {
			targets := []int{0, 1}
			So(c.Append(CNOT(), targets...), ShouldBeNil)
			targets[0] = 2
			So(c.Instructions()[0].Targets, ShouldResemble, []int{0, 1})
		})
	})

	Convey("Given a circuit with a depth limit", t, func() {
		c, err := NewCircuit(2, WithMaxDepth(2))
		So(err, ShouldBeNil)
		So(c.MaxDepth(), ShouldEqual, 2)
		So(c.Append(H(), 0), ShouldBeNil)
		So(c.Append(H(), 0), ShouldBeNil)

		Convey("Another gate on the same qubit exceeds it", func() {
			err := c.Append(X(), 0)
			var md *MaxDepthExceededError
			So(errors.As(err, &md), ShouldBeTrue)
			So(md.Limit, ShouldEqual, 2)
			So(c.GateCount(), ShouldEqual, 2)
		})

		Convey("A gate on an idle qubit still fits", func() {
			So(c.Append(X(), 1), ShouldBeNil)
		})
	})

	Convey("Circuit sizes are validated", t, func() {
		_, err := NewCircuit(0)
		So(errors.Is(err, ErrDimensionMismatch), ShouldBeTrue)
		_, err = NewCircuit(2, WithMaxDepth(-1))
		So(errors.Is(err, ErrInvalidParameter), ShouldBeTrue)
	})
}

func TestCircuitInverseAndCompose(t *testing.T) {
	Convey("Given a small circuit", t, func() {
		c, _ := NewCircuit(2)
		So(c.Append(H(), 0), ShouldBeNil)
		So(c.Append(S(), 1), ShouldBeNil)
		So(c.Append(Rx(0.5), 0), ShouldBeNil)

		Convey("Its inverse reverses and daggers every gate", func() {
			inv, err := c.Inverse()
			So(err, ShouldBeNil)
			insts := inv.Instructions()
			So(len(insts), ShouldEqual, 3)
			theta, _ := insts[0].Gate.Param()
			So(theta, ShouldEqual, -0.5)
			So(insts[1].Gate.Name(), ShouldEqual, "sdg")
			So(insts[2].Gate.Name(), ShouldEqual, "h")
		})

		Convey("Composing a narrower circuit appends its instructions", func() {
			other, _ := NewCircuit(1)
			So(other.Append(X(), 0), ShouldBeNil)
			So(c.Compose(other), ShouldBeNil)
			So(c.GateCount(), ShouldEqual, 4)

			wide, _ := NewCircuit(3)
			So(errors.Is(c.Compose(wide), ErrDimensionMismatch), ShouldBeTrue)
		})
	})
}

func TestCircuitDAG(t *testing.T) {
	Convey("Given a circuit with parallel and dependent gates", t, func() {
		c, err := ParseQASM(`OPENQASM 2.0;
include "qelib1.inc";
qreg q[4];
creg c[1];

h q[0];
h q[1];
cx q[0], q[1];
x q[2];
ccx q[0], q[2], q[3];
`)
		So(err, ShouldBeNil)
		dag := c.DAG()

		Convey("Independent gates land in the first layer", func() {
			layers := dag.Layers()
			So(layers[0], ShouldResemble, []int{0, 1, 3})
			So(layers[1], ShouldResemble, []int{2})
			So(layers[2], ShouldResemble, []int{4})
			So(dag.Depth(), ShouldEqual, c.Depth())
		})

		Convey("Roots have no dependencies", func() {
			So(len(dag.Roots()), ShouldEqual, 3)
			So(dag.Nodes[4].Dependencies, ShouldResemble, []int{2, 3})
		})

		Convey("The critical path follows the longest chain", func() {
			So(dag.CriticalPath(), ShouldResemble, []int{0, 2, 4})
		})

		Convey("Nodes can be located by layer and qubit", func() {
			So(dag.NodeAt(1, 1).Index, ShouldEqual, 2)
			So(dag.NodeAt(1, 3), ShouldBeNil)
			node := dag.NodeAt(2, 3)
			So(node.Spans(1), ShouldBeTrue)
			So(node.Spans(0), ShouldBeTrue)
		})
	})
}
