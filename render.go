package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"qtermsim/quantum"
)

// ──────────────────────────── Rendering helpers ────────────────────────────

// padCenter centres a string within the given display width.
func padCenter(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return runewidth.Truncate(s, width, "")
	}
	total := width - w
	left := total / 2
	right := total - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

// padRight left-aligns s in the given display width.
func padRight(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, ""), width)
}

// gateDisplayName returns a short display name for a gate.
func gateDisplayName(name string) string {
	switch name {
	case "id":
		return "I"
	case "sdg":
		return "S†"
	case "tdg":
		return "T†"
	case "iswap":
		return "iSW"
	case "iswapdg":
		return "iSW†"
	default:
		return strings.ToUpper(name)
	}
}

// wireSymbol returns the bare wire symbol for position pos of a multi-qubit
// gate, or "" when the position is drawn as a labelled box.
func wireSymbol(name string, pos int) string {
	switch name {
	case "cx":
		if pos == 0 {
			return "●"
		}
		return "⊕"
	case "cz":
		return "●"
	case "cy":
		if pos == 0 {
			return "●"
		}
	case "swap":
		return "×"
	case "ccx":
		if pos < 2 {
			return "●"
		}
		return "⊕"
	case "cswap":
		if pos == 0 {
			return "●"
		}
		return "×"
	}
	return ""
}

// boxLabel is the text drawn inside a gate box.
func boxLabel(g quantum.Gate) string {
	if g.Name() == "cy" {
		return "Y"
	}
	return gateDisplayName(g.Name())
}

// ──────────────────────────── Cell rendering ────────────────────────────

type cellHighlight int

const (
	hlNone cellHighlight = iota
	hlCursor
	hlTargetSelect
)

// cellInfo describes what occupies one (layer, qubit) cell of the grid.
type cellInfo struct {
	gate        *quantum.Gate
	pos         int // index of the qubit among the instruction's targets
	passThrough bool
	vertAbove   bool
	vertBelow   bool
}

// gridCell resolves the contents of a cell from the circuit's DAG.
func gridCell(dag *quantum.CircuitDAG, insts []quantum.Instruction, layers [][]int, layer, qubit int) cellInfo {
	var info cellInfo
	if node := dag.NodeAt(layer, qubit); node != nil {
		g := insts[node.Index].Gate
		info.gate = &g
		lo, hi := spanOf(node.Targets)
		for i, q := range node.Targets {
			if q == qubit {
				info.pos = i
			}
		}
		info.vertAbove = qubit > lo
		info.vertBelow = qubit < hi
		return info
	}
	if layer >= len(layers) {
		return info
	}
	for _, idx := range layers[layer] {
		n := dag.Nodes[idx]
		if len(n.Targets) > 1 && n.Spans(qubit) {
			info.passThrough = true
			info.vertAbove = true
			info.vertBelow = true
		}
	}
	return info
}

func spanOf(targets []int) (lo, hi int) {
	lo, hi = targets[0], targets[0]
	for _, q := range targets {
		lo, hi = min(lo, q), max(hi, q)
	}
	return lo, hi
}

// renderCell returns 3 lines (top, mid, bot) for a single cell.
// Each line is exactly cellW (11) visual characters wide.
func renderCell(info cellInfo, hl cellHighlight) (top, mid, bot string) {
	emptyRow := strings.Repeat(" ", cellW)
	halfW := cellW / 2
	vertRow := strings.Repeat(" ", halfW) + "│" + strings.Repeat(" ", cellW-halfW-1)

	var sym, label string
	if info.gate != nil {
		sym = wireSymbol(info.gate.Name(), info.pos)
		if sym == "" {
			label = padCenter(boxLabel(*info.gate), gateNameW)
		}
	}

	// ── Highlighted cell (cursor or target selection) ──
	if hl == hlCursor || hl == hlTargetSelect {
		bdr := cursorBoxStyle
		if hl == hlTargetSelect {
			bdr = targetSelectStyle
		}
		innerW := cellW - 2
		dashL := (innerW - 1) / 2
		dashR := innerW - dashL - 1

		top = bdr.Render("╔" + strings.Repeat("═", innerW) + "╗")
		bot = bdr.Render("╚" + strings.Repeat("═", innerW) + "╝")
		switch {
		case sym != "":
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + gateStyle.Render(sym) + strings.Repeat("─", dashR) + bdr.Render("║")
		case label != "":
			mid = bdr.Render("║") + "─┤" + gateStyle.Render(label) + "├─" + bdr.Render("║")
		case info.passThrough:
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR) + bdr.Render("║")
		default:
			mid = bdr.Render("║") + strings.Repeat("─", innerW) + bdr.Render("║")
		}
		return
	}

	// ── Normal (non-highlighted) cells ──
	dashL := (cellW - 1) / 2
	dashR := cellW - dashL - 1

	top, bot = emptyRow, emptyRow
	if info.vertAbove {
		top = vertRow
	}
	if info.vertBelow {
		bot = vertRow
	}

	switch {
	case sym != "":
		mid = strings.Repeat("─", dashL) + gateStyle.Render(sym) + strings.Repeat("─", dashR)

	case label != "":
		margin := (cellW - gateBoxW) / 2
		rightMargin := cellW - margin - gateBoxW
		boxTop := gateStyle.Render("┌" + strings.Repeat("─", gateNameW) + "┐")
		boxBot := gateStyle.Render("└" + strings.Repeat("─", gateNameW) + "┘")
		if info.vertAbove {
			boxTop = gateStyle.Render("┌" + strings.Repeat("─", gateNameW/2) + "┴" + strings.Repeat("─", gateNameW-gateNameW/2-1) + "┐")
		}
		if info.vertBelow {
			boxBot = gateStyle.Render("└" + strings.Repeat("─", gateNameW/2) + "┬" + strings.Repeat("─", gateNameW-gateNameW/2-1) + "┘")
		}
		top = strings.Repeat(" ", margin) + boxTop + strings.Repeat(" ", rightMargin)
		mid = strings.Repeat("─", margin) + gateStyle.Render("┤"+label+"├") + strings.Repeat("─", rightMargin)
		bot = strings.Repeat(" ", margin) + boxBot + strings.Repeat(" ", rightMargin)

	case info.passThrough:
		mid = strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR)

	default:
		mid = strings.Repeat("─", cellW)
	}
	return
}

// ──────────────────────────── Panel rendering ────────────────────────────

// renderCircuitPanel renders the circuit grid panel.
func (m Model) renderCircuitPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Quantum Circuit"))
	fmt.Fprintf(&sb, "  %s\n\n", dimStyle.Render(fmt.Sprintf("%d qubits · %d gates · depth %d",
		m.circuit.NumQubits(), m.circuit.GateCount(), m.circuit.Depth())))

	dag := m.circuit.DAG()
	insts := m.circuit.Instructions()
	layers := dag.Layers()

	// How many layers fit
	availWidth := width - labelVisualW - 4
	maxLayers := max(availWidth/cellW, 1)

	startLayer := 0
	if m.cursorLayer >= maxLayers {
		startLayer = m.cursorLayer - maxLayers + 1
	}
	if startLayer > 0 {
		fmt.Fprintf(&sb, "  ◀ showing layers %d–%d\n", startLayer, startLayer+maxLayers-1)
	}

	header := strings.Repeat(" ", labelVisualW)
	for layer := startLayer; layer < startLayer+maxLayers; layer++ {
		header += dimStyle.Render(padCenter(fmt.Sprintf("%d", layer), cellW))
	}
	sb.WriteString(header + "\n")

	// Render each qubit as 3 lines
	for qubit := range m.circuit.NumQubits() {
		topLine := strings.Repeat(" ", labelVisualW)
		label := fmt.Sprintf("q[%d]", qubit)
		midLine := qubitLabelStyle.Render(padRight(label, 5)) + "──"
		botLine := strings.Repeat(" ", labelVisualW)

		for layer := startLayer; layer < startLayer+maxLayers; layer++ {
			info := gridCell(dag, insts, layers, layer, qubit)

			hl := hlNone
			if layer == m.cursorLayer && qubit == m.cursorQubit && (m.focus == focusCircuit || m.focus == focusSelectTarget || m.focus == focusMenu) {
				hl = hlCursor
			} else if layer == m.cursorLayer && qubit == m.targetQubit && m.focus == focusSelectTarget {
				hl = hlTargetSelect
			}

			top, mid, bot := renderCell(info, hl)
			topLine += top
			midLine += mid
			botLine += bot
		}

		sb.WriteString(topLine + "\n")
		sb.WriteString(midLine + "\n")
		sb.WriteString(botLine + "\n")
	}

	// Status line
	if m.focus == focusSelectTarget {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "  %s", activeGateStyle.Render(m.pendingItem.name))
		fmt.Fprintf(&sb, "  Select qubit %d of %d: ", len(m.targets)+1, m.pendingGate.Arity())
		sb.WriteString(targetSelectStyle.Render(fmt.Sprintf("q[%d]", m.targetQubit)))
		sb.WriteString(dimStyle.Render("   ↑↓ Move  Enter Confirm  Esc Cancel"))
	} else {
		fmt.Fprintf(&sb, "\n  Position: Layer %d, Qubit %d", m.cursorLayer, m.cursorQubit)
		if node := dag.NodeAt(m.cursorLayer, m.cursorQubit); node != nil {
			fmt.Fprintf(&sb, "  │  %s", describeInstruction(insts[node.Index]))
		}
		if m.statusMsg != "" {
			style := activeGateStyle
			if m.statusErr {
				style = errorStyle
			}
			fmt.Fprintf(&sb, "  │  %s", style.Render(m.statusMsg))
		}
	}

	return circuitStyle.Width(width).Height(height).Render(sb.String())
}

// describeInstruction renders an instruction the way QASM writes it.
func describeInstruction(inst quantum.Instruction) string {
	var sb strings.Builder
	sb.WriteString(inst.Gate.Name())
	if theta, ok := inst.Gate.Param(); ok {
		fmt.Fprintf(&sb, "(%s)", quantum.FormatAngle(theta))
	}
	for i, q := range inst.Targets {
		if i == 0 {
			sb.WriteString(" ")
		} else {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "q[%d]", q)
	}
	return sb.String()
}

// renderQASMPanel renders the QASM editor panel.
func (m Model) renderQASMPanel(width, height int) string {
	var sb strings.Builder

	title := "QASM Editor"
	if m.focus == focusQASM {
		title += " [ACTIVE]"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n\n")
	sb.WriteString(m.qasmEditor.View())
	if m.qasmErr != "" {
		sb.WriteString("\n")
		sb.WriteString(errorStyle.Render(m.qasmErr))
	}

	return qasmStyle.Width(width).Height(height).Render(sb.String())
}

// histogramRow is one outcome line of the results panel.
type histogramRow struct {
	bitstring string
	count     int
}

// topOutcomes returns up to limit outcomes, most frequent first.
func topOutcomes(stats *quantum.MeasurementStatistics, limit int) []histogramRow {
	rows := make([]histogramRow, 0, len(stats.Counts))
	for _, k := range stats.Outcomes() {
		rows = append(rows, histogramRow{bitstring: k, count: stats.Counts[k]})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].count > rows[j].count })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

// renderResultsPanel renders the last run: per-qubit ⟨Z⟩ and a histogram.
func (m Model) renderResultsPanel(width, height int) string {
	var sb strings.Builder

	mode := "ideal"
	if m.noisy {
		mode = "noisy"
	}
	sb.WriteString(titleStyle.Render("Results"))
	fmt.Fprintf(&sb, "  %s\n", dimStyle.Render(fmt.Sprintf("[%s · %d shots]", mode, m.cfg.Shots)))

	res := m.result
	if res == nil {
		sb.WriteString(dimStyle.Render("Press Enter to run the circuit."))
		return resultsStyle.Width(width).Height(height).Render(sb.String())
	}

	sb.WriteString(dimStyle.Render("run " + shortID(res.runID) + "  "))
	for q, z := range res.expectZ {
		fmt.Fprintf(&sb, "%s%+.3f ", histLabelStyle.Render(fmt.Sprintf("⟨Z%d⟩", q)), z)
	}
	sb.WriteString("\n")

	rows := topOutcomes(res.stats, histRows)
	peak := 1
	if len(rows) > 0 {
		peak = rows[0].count
	}
	for _, row := range rows {
		bar := strings.Repeat("█", max(row.count*histBarW/peak, 1))
		fmt.Fprintf(&sb, "%s %s %.3f (%d)\n",
			histLabelStyle.Render(row.bitstring),
			histBarStyle.Render(padRight(bar, histBarW)),
			res.stats.Probability(row.bitstring), row.count)
	}
	if hidden := len(res.stats.Counts) - len(rows); hidden > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("… %d more outcomes", hidden)))
	}

	return resultsStyle.Width(width).Height(height).Render(sb.String())
}

// renderControlsPanel renders the bottom help/controls bar.
func (m Model) renderControlsPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(activeGateStyle.Render("Navigate: "))
	sb.WriteString("↑↓/jk Move qubit  ←→/hl Move layer  +/- Qubits")
	sb.WriteString("    ")
	sb.WriteString(activeGateStyle.Render("a"))
	sb.WriteString(" Add gate\n")

	sb.WriteString(activeGateStyle.Render("Actions:  "))
	sb.WriteString("⏎ Run  n Noise  Tab Switch focus  Bksp Delete  ^R Reset  ^S Save  ^E Export  q/^C Quit")

	return controlsStyle.Width(width).Height(height).Render(sb.String())
}

// ──────────────────────────── Overlay helpers ────────────────────────────

// overlayAt composites the overlay string on top of the background at position (x, y).
// It handles ANSI escape sequences by tracking visible column positions.
func overlayAt(bg, overlay string, x, y int) string {
	bgLines := strings.Split(bg, "\n")
	ovLines := strings.Split(overlay, "\n")

	for i, ovLine := range ovLines {
		bgIdx := y + i
		if bgIdx < 0 || bgIdx >= len(bgLines) {
			continue
		}
		bgLines[bgIdx] = spliceLineAt(bgLines[bgIdx], ovLine, x)
	}
	return strings.Join(bgLines, "\n")
}

// isEscEnd reports whether r terminates an ANSI escape sequence.
func isEscEnd(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

// spliceLineAt replaces visible columns starting at position x in bgLine with overlay content.
func spliceLineAt(bgLine, overlay string, x int) string {
	runes := []rune(bgLine)
	ovWidth := visibleLen(overlay)

	var prefix strings.Builder
	col, i := 0, 0

	// Collect prefix: everything up to visible column x
	for i < len(runes) && col < x {
		if runes[i] == '\x1b' {
			for i < len(runes) {
				prefix.WriteRune(runes[i])
				i++
				if isEscEnd(runes[i-1]) {
					break
				}
			}
			continue
		}
		prefix.WriteRune(runes[i])
		col += runewidth.RuneWidth(runes[i])
		i++
	}

	// Pad prefix if bg line is shorter than x
	for col < x {
		prefix.WriteRune(' ')
		col++
	}

	// Skip over ovWidth visible columns in the background
	skipped := 0
	for i < len(runes) && skipped < ovWidth {
		if runes[i] == '\x1b' {
			for i < len(runes) {
				i++
				if isEscEnd(runes[i-1]) {
					break
				}
			}
			continue
		}
		skipped += runewidth.RuneWidth(runes[i])
		i++
	}

	return prefix.String() + overlay + string(runes[i:])
}

// visibleLen returns the display width of s, ignoring ANSI escape sequences.
func visibleLen(s string) int {
	n := 0
	inEsc := false
	for _, r := range s {
		if r == '\x1b' {
			inEsc = true
			continue
		}
		if inEsc {
			if isEscEnd(r) {
				inEsc = false
			}
			continue
		}
		n += runewidth.RuneWidth(r)
	}
	return n
}
