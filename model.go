package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"qtermsim/quantum"
)

// maxTUIQubits bounds the register the TUI will draw and simulate.
const maxTUIQubits = 12

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusCircuit focus = iota
	focusQASM
	focusMenu
	focusInputParam
	focusSelectTarget
)

// Model represents the TUI application state.
type Model struct {
	cfg         Config
	logger      *log.Logger
	circuit     *quantum.Circuit // single source of truth
	cursorQubit int
	cursorLayer int
	width       int
	height      int
	qasmEditor  textarea.Model
	focus       focus
	lastQASM    string
	qasmErr     string // last QASM parse error, shown under the editor
	statusMsg   string // transient status message (e.g. save confirmation)
	statusErr   bool

	// Menu state
	menuCat  int
	menuItem int

	// Placement state (for multi-qubit gates)
	pendingGate quantum.Gate
	pendingItem menuItem
	targets     []int
	targetQubit int
	paramInput  string

	// Simulation state
	noisy  bool
	runs   uint64
	result *runResult
}

func initialModel(cfg Config, logger *log.Logger) Model {
	ta := textarea.New()
	ta.Placeholder = "Edit QASM here..."
	ta.SetWidth(40)
	ta.SetHeight(20)
	ta.ShowLineNumbers = true
	ta.KeyMap.InsertNewline.SetEnabled(true)

	c, _ := quantum.NewCircuit(cfg.Qubits)
	m := Model{
		cfg:        cfg,
		logger:     logger,
		circuit:    c,
		qasmEditor: ta,
		focus:      focusCircuit,
	}
	m.syncFromCircuit()
	return m
}

// ──────────────────────────── Circuit editing ────────────────────────────

func (m *Model) syncFromCircuit() {
	qasm, err := m.circuit.ToQASM()
	if err != nil {
		m.setError(err)
		return
	}
	m.qasmEditor.SetValue(qasm)
	m.lastQASM = qasm
	m.qasmErr = ""
	m.result = nil
}

func (m *Model) parseQASMInput() {
	qasm := m.qasmEditor.Value()
	if qasm == m.lastQASM {
		return
	}
	m.lastQASM = qasm
	c, err := quantum.ParseQASM(qasm)
	if err != nil {
		m.qasmErr = err.Error()
		return
	}
	if c.NumQubits() > maxTUIQubits {
		m.qasmErr = fmt.Sprintf("at most %d qubits can be shown", maxTUIQubits)
		return
	}
	m.qasmErr = ""
	m.circuit = c
	m.result = nil
	m.cursorQubit = min(m.cursorQubit, c.NumQubits()-1)
	m.cursorLayer = min(m.cursorLayer, c.Depth())
}

// rebuild replaces the circuit with numQubits qubits and the given
// instructions, skipping any that no longer fit.
func (m *Model) rebuild(numQubits int, insts []quantum.Instruction) {
	c, err := quantum.NewCircuit(numQubits)
	if err != nil {
		m.setError(err)
		return
	}
	for _, inst := range insts {
		if err := c.Append(inst.Gate, inst.Targets...); err != nil {
			m.logger.Debug("instruction dropped", "gate", inst.Gate.Name(), "targets", inst.Targets, "err", err)
		}
	}
	m.circuit = c
	m.cursorQubit = min(m.cursorQubit, numQubits-1)
	m.cursorLayer = min(m.cursorLayer, c.Depth())
	m.syncFromCircuit()
}

// deleteAtCursor removes the instruction occupying the cursor cell.
func (m *Model) deleteAtCursor() {
	node := m.circuit.DAG().NodeAt(m.cursorLayer, m.cursorQubit)
	if node == nil {
		return
	}
	insts := m.circuit.Instructions()
	insts = append(insts[:node.Index], insts[node.Index+1:]...)
	m.rebuild(m.circuit.NumQubits(), insts)
}

// beginPlacement starts placing g with the cursor qubit as its first target.
func (m *Model) beginPlacement(item menuItem, g quantum.Gate) {
	if g.Arity() > m.circuit.NumQubits() {
		m.setError(fmt.Errorf("%s needs %d qubits", item.name, g.Arity()))
		m.focus = focusCircuit
		return
	}
	m.pendingGate = g
	m.pendingItem = item
	m.targets = []int{m.cursorQubit}
	if g.Arity() == 1 {
		m.placeGate()
		return
	}
	m.focus = focusSelectTarget
	m.targetQubit = m.nextFree(m.cursorQubit, 1)
}

// nextFree returns the nearest qubit in direction dir not yet chosen as a
// target, wrapping around the register.
func (m *Model) nextFree(from, dir int) int {
	n := m.circuit.NumQubits()
	for step := 1; step < n; step++ {
		q := ((from+dir*step)%n + n) % n
		if !containsQubit(m.targets, q) {
			return q
		}
	}
	return from
}

func (m *Model) placeGate() {
	defer m.clearPending()
	if err := m.circuit.Append(m.pendingGate, m.targets...); err != nil {
		m.setError(err)
		return
	}
	dag := m.circuit.DAG()
	m.cursorLayer = dag.Nodes[len(dag.Nodes)-1].Layer + 1
	m.logger.Debug("gate placed", "gate", m.pendingGate.Name(), "targets", m.targets)
	m.syncFromCircuit()
}

func (m *Model) clearPending() {
	m.pendingGate = quantum.Gate{}
	m.pendingItem = menuItem{}
	m.targets = nil
	m.paramInput = ""
	m.focus = focusCircuit
}

func (m *Model) setError(err error) {
	m.statusMsg = err.Error()
	m.statusErr = true
}

func (m *Model) setStatus(format string, args ...any) {
	m.statusMsg = fmt.Sprintf(format, args...)
	m.statusErr = false
}

// ──────────────────────────── Simulation ────────────────────────────

func (m *Model) run() {
	seed := m.cfg.Seed + m.runs
	m.runs++
	res, err := simulate(m.circuit, m.cfg, m.noisy, seed)
	if err != nil {
		m.logger.Error("simulation failed", "err", err)
		m.setError(err)
		return
	}
	m.result = res
	best, count := res.stats.MostFrequent()
	m.logger.Info("simulation finished", "run", res.runID, "noisy", res.noisy, "shots", res.stats.Shots, "top", best)
	m.setStatus("Run %s: most frequent %s (%d/%d)", shortID(res.runID), best, count, res.stats.Shots)
}

func (m *Model) saveQASM() {
	qasm, err := m.circuit.ToQASM()
	if err != nil {
		m.setError(err)
		return
	}
	if err := os.WriteFile(m.cfg.QASMFile, []byte(qasm), 0o644); err != nil {
		m.setError(fmt.Errorf("save: %w", err))
		return
	}
	m.setStatus("Saved %s", m.cfg.QASMFile)
}

func (m *Model) exportResult() {
	if m.result == nil {
		m.setError(fmt.Errorf("nothing to export, run the circuit first"))
		return
	}
	path, err := exportRun(m.result, m.cfg.ExportDir)
	if err != nil {
		m.setError(fmt.Errorf("export: %w", err))
		return
	}
	m.logger.Info("run exported", "path", path)
	m.setStatus("Exported %s", path)
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		qasmW := max(msg.Width/3-6, 20)
		m.qasmEditor.SetWidth(qasmW)
		ctrlH := 6
		circH := msg.Height - ctrlH - 4
		editorH := max(circH-10, 4)
		m.qasmEditor.SetHeight(editorH)

	case tea.KeyMsg:
		key := msg.String()
		if m.focus != focusQASM {
			m.statusMsg = ""
			m.statusErr = false
		}

		if key == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.focus {
		case focusCircuit:
			switch key {
			case "q":
				return m, tea.Quit
			case "tab":
				m.focus = focusQASM
				m.qasmEditor.Focus()
			case "ctrl+r":
				m.rebuild(m.circuit.NumQubits(), nil)
				m.cursorLayer = 0
			case "ctrl+s":
				m.saveQASM()
			case "ctrl+e":
				m.exportResult()
			case "enter", "r":
				m.run()
			case "n":
				m.noisy = !m.noisy
				m.result = nil
				if m.noisy {
					m.setStatus("Noise on: %v", m.cfg.Noise.Channels)
				} else {
					m.setStatus("Noise off")
				}
			case "up", "k":
				if m.cursorQubit > 0 {
					m.cursorQubit--
				}
			case "down", "j":
				if m.cursorQubit < m.circuit.NumQubits()-1 {
					m.cursorQubit++
				}
			case "left", "h":
				if m.cursorLayer > 0 {
					m.cursorLayer--
				}
			case "right", "l":
				if m.cursorLayer < m.circuit.Depth() {
					m.cursorLayer++
				}
			case "+", "=":
				if m.circuit.NumQubits() < maxTUIQubits {
					m.rebuild(m.circuit.NumQubits()+1, m.circuit.Instructions())
				}
			case "-":
				if m.circuit.NumQubits() > 1 {
					m.rebuild(m.circuit.NumQubits()-1, m.circuit.Instructions())
				}
			case "a":
				m.focus = focusMenu
				m.menuCat = 0
				m.menuItem = 0
			case "backspace", "delete":
				m.deleteAtCursor()
			}

		case focusMenu:
			switch key {
			case "esc":
				m.focus = focusCircuit
			case "up", "k":
				if m.menuItem > 0 {
					m.menuItem--
				}
			case "down", "j":
				if m.menuItem < len(gateMenu[m.menuCat].items)-1 {
					m.menuItem++
				}
			case "left", "h":
				if m.menuCat > 0 {
					m.menuCat--
					m.menuItem = 0
				}
			case "right", "l":
				if m.menuCat < len(gateMenu)-1 {
					m.menuCat++
					m.menuItem = 0
				}
			case "enter":
				item := gateMenu[m.menuCat].items[m.menuItem]
				if item.needsParam() {
					m.pendingItem = item
					m.paramInput = ""
					m.focus = focusInputParam
					break
				}
				g, err := buildGate(item, "")
				if err != nil {
					m.setError(err)
					m.focus = focusCircuit
					break
				}
				m.beginPlacement(item, g)
			}

		case focusInputParam:
			switch key {
			case "esc":
				m.clearPending()
			case "backspace":
				if len(m.paramInput) > 0 {
					m.paramInput = m.paramInput[:len(m.paramInput)-1]
				}
			case "enter":
				g, err := buildGate(m.pendingItem, m.paramInput)
				if err != nil {
					m.statusMsg = "Invalid angle: use numbers or pi expressions (e.g. pi/2, 3*pi/4)"
					m.statusErr = true
					break
				}
				m.beginPlacement(m.pendingItem, g)
			default:
				if len(key) == 1 {
					ch := key[0]
					if (ch >= '0' && ch <= '9') || ch == '.' || ch == '-' || ch == 'e' || ch == 'E' || ch == '+' ||
						ch == 'p' || ch == 'i' || ch == '*' || ch == '/' {
						m.paramInput += key
					}
				}
			}

		case focusSelectTarget:
			switch key {
			case "esc":
				m.clearPending()
			case "up", "k":
				m.targetQubit = m.nextFree(m.targetQubit, -1)
			case "down", "j":
				m.targetQubit = m.nextFree(m.targetQubit, 1)
			case "enter":
				m.targets = append(m.targets, m.targetQubit)
				if len(m.targets) == m.pendingGate.Arity() {
					m.placeGate()
					break
				}
				m.targetQubit = m.nextFree(m.targetQubit, 1)
			}

		case focusQASM:
			switch key {
			case "tab":
				m.focus = focusCircuit
				m.qasmEditor.Blur()
				// Re-render canonical QASM once editing ends.
				if m.qasmErr == "" {
					m.syncFromCircuit()
				}
			default:
				var cmd tea.Cmd
				m.qasmEditor, cmd = m.qasmEditor.Update(msg)
				cmds = append(cmds, cmd)
				m.parseQASMInput()
			}
		}
	}

	return m, tea.Batch(cmds...)
}

func containsQubit(qs []int, q int) bool {
	for _, x := range qs {
		if x == q {
			return true
		}
	}
	return false
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	qasmWidth := m.width / 3
	circuitWidth := m.width - qasmWidth - 4
	controlsHeight := 6
	mainHeight := max(m.height-controlsHeight-2, 12)
	resultsHeight := histRows + 6
	circuitHeight := max(mainHeight-resultsHeight-2, 6)

	circuitPanel := m.renderCircuitPanel(circuitWidth, circuitHeight)
	resultsPanel := m.renderResultsPanel(circuitWidth, resultsHeight)
	qasmPanel := m.renderQASMPanel(qasmWidth, mainHeight)
	controlsPanel := m.renderControlsPanel(m.width-4, controlsHeight-2)

	left := lipgloss.JoinVertical(lipgloss.Left, circuitPanel, resultsPanel)
	topRow := lipgloss.JoinHorizontal(lipgloss.Top, left, qasmPanel)
	frame := lipgloss.JoinVertical(lipgloss.Left, topRow, controlsPanel)

	switch m.focus {
	case focusMenu:
		frame = overlayAt(frame, m.renderMenu(), 2, 2)
	case focusInputParam:
		frame = overlayAt(frame, m.renderParamInput(), 2, 2)
	}
	return frame
}

// renderParamInput renders parameter input overlay.
func (m Model) renderParamInput() string {
	body := titleStyle.Render("Angle for "+m.pendingItem.name) + "\n\n" +
		fmt.Sprintf("Value: %s_", m.paramInput) + "\n\n" +
		dimStyle.Render("Examples: pi/2, 3*pi/4, 1.57")
	if m.statusErr {
		body += "\n" + errorStyle.Render(m.statusMsg)
	}
	return menuBorderStyle.Render(body)
}
