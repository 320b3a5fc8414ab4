package quantum

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// piExprRegex matches expressions like: pi, 2pi, 2*pi, pi/2, 3pi/4, 3*pi/4, -pi, -pi/2, -3*pi/4
var piExprRegex = regexp.MustCompile(`^(-?)(\d*\.?\d*)\s*\*?\s*pi(?:\s*/\s*(\d+\.?\d*))?$`)

// ParseAngle parses a plain number or a pi expression.
//
// Supported formats:
//   - Plain numbers: "1.5707", "3.14", "-0.5", "3.14e-2"
//   - Pi constant: "pi"
//   - Pi fractions: "pi/2", "pi/4", "pi/3"
//   - Coefficients: "2pi", "2*pi", "3pi/4", "3*pi/4"
//   - Negative: "-pi", "-pi/2", "-3*pi/4"
func ParseAngle(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, invalidParameterf("empty angle")
	}

	if val, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return 0, invalidParameterf("angle %q is not finite", s)
		}
		return val, nil
	}

	matches := piExprRegex.FindStringSubmatch(strings.ToLower(s))
	if matches == nil {
		return 0, invalidParameterf("cannot parse angle %q", s)
	}
	coeff := 1.0
	if matches[2] != "" {
		var err error
		coeff, err = strconv.ParseFloat(matches[2], 64)
		if err != nil {
			return 0, invalidParameterf("bad coefficient in %q", s)
		}
	}
	denom := 1.0
	if matches[3] != "" {
		var err error
		denom, err = strconv.ParseFloat(matches[3], 64)
		if err != nil || denom == 0 {
			return 0, invalidParameterf("bad denominator in %q", s)
		}
	}
	result := piFraction(coeff, denom)
	if matches[1] == "-" {
		result = -result
	}
	return result, nil
}

// piForm is a recognised multiple of pi used for display.
type piForm struct {
	coeff   float64
	denom   float64
	display string
}

var piForms = []piForm{
	{2, 1, "2*pi"},
	{1, 1, "pi"},
	{1, 2, "pi/2"},
	{1, 3, "pi/3"},
	{1, 4, "pi/4"},
	{1, 6, "pi/6"},
	{1, 8, "pi/8"},
	{3, 4, "3*pi/4"},
	{3, 2, "3*pi/2"},
	{2, 3, "2*pi/3"},
}

// piFraction evaluates coeff*pi/denom in float64 the same way for parsing and
// formatting, so recognised fractions round-trip bit for bit.
func piFraction(coeff, denom float64) float64 {
	v := coeff * math.Pi
	return v / denom
}

// FormatAngle renders an angle, using pi notation only when the value is
// exactly one of the recognised fractions. Other values use the shortest
// decimal form that parses back to the same float64.
func FormatAngle(val float64) string {
	for _, pf := range piForms {
		v := piFraction(pf.coeff, pf.denom)
		if val == v {
			return pf.display
		}
		if val == -v {
			return "-" + pf.display
		}
	}
	return strconv.FormatFloat(val, 'g', -1, 64)
}
