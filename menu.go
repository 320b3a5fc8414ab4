package main

import (
	"fmt"
	"strings"

	"qtermsim/quantum"
)

// menuItem represents a single gate choice in the menu.
type menuItem struct {
	name      string
	gate      string // catalog name passed to quantum.Lookup
	symbol    string
	arity     int
	paramHint string // example angle, empty for fixed gates
}

func (it menuItem) needsParam() bool { return it.paramHint != "" }

// menuCategory groups related menu items under a tab.
type menuCategory struct {
	name  string
	items []menuItem
}

// gateMenu defines the gate picker categories and items.
var gateMenu = []menuCategory{
	{
		name: "Single Qubit",
		items: []menuItem{
			{name: "Hadamard", gate: "h", symbol: "H", arity: 1},
			{name: "Pauli-X (NOT)", gate: "x", symbol: "X", arity: 1},
			{name: "Pauli-Y", gate: "y", symbol: "Y", arity: 1},
			{name: "Pauli-Z", gate: "z", symbol: "Z", arity: 1},
			{name: "Identity", gate: "id", symbol: "I", arity: 1},
			{name: "Phase (S)", gate: "s", symbol: "S", arity: 1},
			{name: "Phase Dagger (S†)", gate: "sdg", symbol: "S†", arity: 1},
			{name: "T Gate", gate: "t", symbol: "T", arity: 1},
			{name: "T Dagger (T†)", gate: "tdg", symbol: "T†", arity: 1},
		},
	},
	{
		name: "Rotation",
		items: []menuItem{
			{name: "Rotate X", gate: "rx", symbol: "RX", arity: 1, paramHint: "pi/2"},
			{name: "Rotate Y", gate: "ry", symbol: "RY", arity: 1, paramHint: "pi/2"},
			{name: "Rotate Z", gate: "rz", symbol: "RZ", arity: 1, paramHint: "pi/2"},
			{name: "Phase Shift", gate: "p", symbol: "P", arity: 1, paramHint: "pi/4"},
		},
	},
	{
		name: "Multi Qubit",
		items: []menuItem{
			{name: "CNOT", gate: "cx", symbol: "●─⊕", arity: 2},
			{name: "Controlled-Z", gate: "cz", symbol: "●─●", arity: 2},
			{name: "Controlled-Y", gate: "cy", symbol: "●─Y", arity: 2},
			{name: "SWAP", gate: "swap", symbol: "×─×", arity: 2},
			{name: "iSWAP", gate: "iswap", symbol: "iSW", arity: 2},
			{name: "iSWAP Dagger", gate: "iswapdg", symbol: "iSW†", arity: 2},
			{name: "Toffoli (CCX)", gate: "ccx", symbol: "●─●─⊕", arity: 3},
			{name: "Fredkin (CSWAP)", gate: "cswap", symbol: "●─×─×", arity: 3},
		},
	},
}

// buildGate resolves a menu item into a catalog gate, parsing its angle.
func buildGate(item menuItem, param string) (quantum.Gate, error) {
	if !item.needsParam() {
		return quantum.Lookup(item.gate)
	}
	theta, err := quantum.ParseAngle(param)
	if err != nil {
		return quantum.Gate{}, err
	}
	return quantum.Lookup(item.gate, theta)
}

// renderMenu renders the floating gate-picker popup.
func (m Model) renderMenu() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Add Gate"))
	sb.WriteString("\n")

	// Category tabs
	for i, cat := range gateMenu {
		name := " " + cat.name + " "
		if i == m.menuCat {
			sb.WriteString(activeGateStyle.Render(name))
		} else {
			sb.WriteString(dimStyle.Render(name))
		}
		if i < len(gateMenu)-1 {
			sb.WriteString(dimStyle.Render("│"))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", 42)))
	sb.WriteString("\n")

	cat := gateMenu[m.menuCat]
	for i, item := range cat.items {
		label := padRight(item.name, 18)
		if i == m.menuItem {
			sb.WriteString(menuSelectedStyle.Render(" ▸ "))
			sb.WriteString(menuSelectedStyle.Render(label))
			sb.WriteString(gateStyle.Render(item.symbol))
		} else {
			sb.WriteString("   ")
			sb.WriteString(menuNormalStyle.Render(label))
			sb.WriteString(dimStyle.Render(item.symbol))
		}
		if item.arity > 1 {
			sb.WriteString(dimStyle.Render(fmt.Sprintf(" +%d qubits", item.arity-1)))
		}
		if item.needsParam() {
			sb.WriteString(dimStyle.Render(fmt.Sprintf(" (%s)", item.paramHint)))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render(" ↑↓ Select  ←→ Cat  ⏎ Ok  Esc ✕"))

	return menuBorderStyle.Render(sb.String())
}
