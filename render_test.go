package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"qtermsim/quantum"
)

func TestPadding(t *testing.T) {
	require.Equal(t, "  H  ", padCenter("H", 5))
	require.Equal(t, " S†  ", padCenter("S†", 5))
	require.Equal(t, "abcde", padCenter("abcdefg", 5))
	require.Equal(t, "q[1] ", padRight("q[1]", 5))
}

func TestVisibleLenIgnoresEscapes(t *testing.T) {
	require.Equal(t, 3, visibleLen("\x1b[1;31mabc\x1b[0m"))
	require.Equal(t, 4, visibleLen("漢字"))
}

func TestOverlayAt(t *testing.T) {
	bg := "..........\n..........\n.........."
	out := overlayAt(bg, "ab\ncd", 3, 1)
	require.Equal(t, "..........\n...ab.....\n...cd.....", out)

	// Short background lines are padded.
	out = overlayAt("..", "xy", 4, 0)
	require.Equal(t, "..  xy", out)

	// Escapes in the background are kept.
	out = spliceLineAt("\x1b[31m.....\x1b[0m", "X", 2)
	require.Equal(t, 5, visibleLen(out))
	require.True(t, strings.HasPrefix(out, "\x1b[31m..X"))
}

func TestGridCells(t *testing.T) {
	c, err := quantum.NewCircuit(3)
	require.NoError(t, err)
	require.NoError(t, c.Append(quantum.H(), 1))
	require.NoError(t, c.Append(quantum.CNOT(), 0, 2))

	dag := c.DAG()
	insts := c.Instructions()
	layers := dag.Layers()

	// Layer 0 holds both gates; the CNOT crosses qubit 1 only where H is not.
	info := gridCell(dag, insts, layers, 0, 1)
	require.NotNil(t, info.gate)
	require.Equal(t, "h", info.gate.Name())

	ctrl := gridCell(dag, insts, layers, 0, 0)
	require.Equal(t, "●", wireSymbol(ctrl.gate.Name(), ctrl.pos))
	require.True(t, ctrl.vertBelow)
	require.False(t, ctrl.vertAbove)

	tgt := gridCell(dag, insts, layers, 0, 2)
	require.Equal(t, "⊕", wireSymbol(tgt.gate.Name(), tgt.pos))
	require.True(t, tgt.vertAbove)

	require.Nil(t, gridCell(dag, insts, layers, 5, 0).gate)

	c2, _ := quantum.NewCircuit(3)
	require.NoError(t, c2.Append(quantum.SWAP(), 0, 2))
	dag2 := c2.DAG()
	cross := gridCell(dag2, c2.Instructions(), dag2.Layers(), 0, 1)
	require.True(t, cross.passThrough)
}

func TestRenderCellWidth(t *testing.T) {
	h := quantum.H()
	cy := quantum.CY()
	cases := []cellInfo{
		{},
		{gate: &h},
		{gate: &cy, pos: 1, vertAbove: true},
		{gate: &cy, pos: 0, vertBelow: true},
		{passThrough: true, vertAbove: true, vertBelow: true},
	}
	for _, info := range cases {
		for _, hl := range []cellHighlight{hlNone, hlCursor, hlTargetSelect} {
			top, mid, bot := renderCell(info, hl)
			require.Equal(t, cellW, visibleLen(top))
			require.Equal(t, cellW, visibleLen(mid))
			require.Equal(t, cellW, visibleLen(bot))
		}
	}
}

func TestTopOutcomes(t *testing.T) {
	stats := &quantum.MeasurementStatistics{
		Qubits: []int{1, 0},
		Shots:  10,
		Counts: map[string]int{"00": 2, "01": 5, "10": 2, "11": 1},
	}
	rows := topOutcomes(stats, 3)
	require.Len(t, rows, 3)
	require.Equal(t, "01", rows[0].bitstring)
	require.Equal(t, "00", rows[1].bitstring)
	require.Equal(t, "10", rows[2].bitstring)
}

func TestViewRenders(t *testing.T) {
	m := testModel(t, 2)
	require.Equal(t, "Loading...", m.View())

	next, _ := m.Update(tea.WindowSizeMsg{Width: 160, Height: 48})
	m = next.(Model)
	m = press(t, m, "a", "right", "right", "enter", "enter", "enter")

	view := m.View()
	require.Contains(t, view, "Quantum Circuit")
	require.Contains(t, view, "QASM Editor")
	require.Contains(t, view, "Results")
	require.Contains(t, view, "⟨Z0⟩")

	m = press(t, m, "a")
	require.Contains(t, m.View(), "Add Gate")
}

func TestDescribeInstruction(t *testing.T) {
	inst := quantum.Instruction{Gate: quantum.Rz(-1.5), Targets: []int{2}}
	require.Equal(t, "rz(-1.5) q[2]", describeInstruction(inst))
	inst = quantum.Instruction{Gate: quantum.Toffoli(), Targets: []int{2, 0, 1}}
	require.Equal(t, "ccx q[2], q[0], q[1]", describeInstruction(inst))
}
