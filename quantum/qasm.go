package quantum

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Pre-compiled regexps for QASM parsing.
var (
	qregRegex     = regexp.MustCompile(`^qreg\s+(\w+)\s*\[\s*(\d+)\s*\]\s*;?$`)
	gateLineRegex = regexp.MustCompile(`^([A-Za-z_]\w*)\s*(?:\(\s*([^)]*?)\s*\))?\s+(\w+\s*\[\s*\d+\s*\](?:\s*,\s*\w+\s*\[\s*\d+\s*\])*)\s*;?$`)
	operandRegex  = regexp.MustCompile(`\w+\s*\[\s*(\d+)\s*\]`)
	measureRegex  = regexp.MustCompile(`^measure\s+\w+\s*(?:\[\s*(\d+)\s*\])?\s*->`)
)

// ToQASM renders the circuit as OpenQASM 2.0 text: a register declaration
// followed by one line per instruction with its angle and ordered targets.
// Custom gates have no textual form and are rejected.
func (c *Circuit) ToQASM() (string, error) {
	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", c.numQubits)
	if len(c.instructions) > 0 {
		sb.WriteString("\n")
	}

	for i, inst := range c.instructions {
		g := inst.Gate
		if g.kind == KindCustom {
			return "", invalidParameterf("instruction %d: custom gate %q cannot be written as QASM", i, g.name)
		}
		sb.WriteString(g.name)
		if theta, ok := g.Param(); ok {
			fmt.Fprintf(&sb, "(%s)", FormatAngle(theta))
		}
		for j, q := range inst.Targets {
			if j == 0 {
				sb.WriteString(" ")
			} else {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "q[%d]", q)
		}
		sb.WriteString(";\n")
	}
	return sb.String(), nil
}

// ParseQASM rebuilds a circuit from text written by ToQASM. It also accepts
// the usual qelib1 aliases (cnot, u1, toffoli, ...). Classical registers and
// barriers are skipped. Terminal measurements are skipped too; a gate acting
// on an already measured qubit is an error, since the circuit has no
// mid-circuit measurement step.
func ParseQASM(qasm string, opts ...CircuitOption) (*Circuit, error) {
	var c *Circuit
	measuredAt := map[int]int{} // qubit -> line of its measurement
	for n, raw := range strings.Split(qasm, "\n") {
		lineNo := n + 1
		line := strings.TrimSpace(raw)
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "OPENQASM") ||
			strings.HasPrefix(line, "include") ||
			strings.HasPrefix(line, "creg") ||
			strings.HasPrefix(line, "barrier") {
			continue
		}
		if strings.HasPrefix(line, "measure") {
			matches := measureRegex.FindStringSubmatch(line)
			if matches == nil {
				return nil, invalidParameterf("line %d: malformed measure %q", lineNo, line)
			}
			if c == nil {
				return nil, invalidParameterf("line %d: measure before qreg declaration", lineNo)
			}
			if matches[1] == "" {
				for q := range c.numQubits {
					if _, ok := measuredAt[q]; !ok {
						measuredAt[q] = lineNo
					}
				}
				continue
			}
			q, _ := strconv.Atoi(matches[1])
			if q >= c.numQubits {
				return nil, fmt.Errorf("line %d: %w", lineNo, &InvalidQubitIndexError{Index: q, Size: c.numQubits})
			}
			if _, ok := measuredAt[q]; !ok {
				measuredAt[q] = lineNo
			}
			continue
		}

		if strings.HasPrefix(line, "qreg") {
			matches := qregRegex.FindStringSubmatch(line)
			if matches == nil {
				return nil, invalidParameterf("line %d: malformed qreg %q", lineNo, line)
			}
			if c != nil {
				return nil, invalidParameterf("line %d: only one qreg is supported", lineNo)
			}
			size, _ := strconv.Atoi(matches[2])
			var err error
			if c, err = NewCircuit(size, opts...); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			continue
		}

		matches := gateLineRegex.FindStringSubmatch(line)
		if matches == nil {
			return nil, invalidParameterf("line %d: cannot parse %q", lineNo, line)
		}
		if c == nil {
			return nil, invalidParameterf("line %d: gate before qreg declaration", lineNo)
		}

		var params []float64
		if strings.TrimSpace(matches[2]) != "" {
			for _, p := range strings.Split(matches[2], ",") {
				val, err := ParseAngle(p)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				params = append(params, val)
			}
		}
		g, err := Lookup(matches[1], params...)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		var targets []int
		for _, op := range operandRegex.FindAllStringSubmatch(matches[3], -1) {
			q, _ := strconv.Atoi(op[1])
			targets = append(targets, q)
			if at, ok := measuredAt[q]; ok {
				return nil, invalidParameterf("line %d: q[%d] is used after its measurement on line %d", lineNo, q, at)
			}
		}
		if err := c.Append(g, targets...); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if c == nil {
		return nil, invalidParameterf("missing qreg declaration")
	}
	return c, nil
}
