// Package quantity provides dimensioned physical values for neuron and
// synapse parameters.
//
// A [Quantity] is a magnitude in SI base units tagged with a [Dimension].
// Two quantities are compatible when their dimensions match; no unit
// arithmetic beyond scaling by a prefix is supported.
package quantity

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrUnknownUnit indicates a unit symbol outside the unit table.
	ErrUnknownUnit = errors.New("quantity: unknown unit")

	// ErrMalformed indicates text that is not "<number> [unit]".
	ErrMalformed = errors.New("quantity: malformed value")

	// ErrIncompatible indicates a conversion across dimensions.
	ErrIncompatible = errors.New("quantity: incompatible dimensions")
)

type Dimension int

const (
	Dimensionless Dimension = iota
	Time
	Voltage
	Conductance
	Capacitance
)

func (d Dimension) String() string {
	switch d {
	case Time:
		return "time"
	case Voltage:
		return "voltage"
	case Conductance:
		return "conductance"
	case Capacitance:
		return "capacitance"
	default:
		return "dimensionless"
	}
}

// BaseUnit returns the SI unit name for the dimension.
func (d Dimension) BaseUnit() string {
	switch d {
	case Time:
		return "second"
	case Voltage:
		return "volt"
	case Conductance:
		return "siemens"
	case Capacitance:
		return "farad"
	default:
		return "1"
	}
}

type unit struct {
	symbol string
	dim    Dimension
	scale  float64
}

// ordered largest prefix first so String picks the first one that fits
var units = []unit{
	{"s", Time, 1},
	{"ms", Time, 1e-3},
	{"us", Time, 1e-6},
	{"V", Voltage, 1},
	{"mV", Voltage, 1e-3},
	{"uV", Voltage, 1e-6},
	{"S", Conductance, 1},
	{"mS", Conductance, 1e-3},
	{"uS", Conductance, 1e-6},
	{"nS", Conductance, 1e-9},
	{"F", Capacitance, 1},
	{"uF", Capacitance, 1e-6},
	{"nF", Capacitance, 1e-9},
	{"pF", Capacitance, 1e-12},
}

func lookup(symbol string) (unit, bool) {
	for _, u := range units {
		if u.symbol == symbol {
			return u, true
		}
	}
	return unit{}, false
}

type Quantity struct {
	Value float64
	Dim   Dimension
}

func Scalar(v float64) Quantity       { return Quantity{Value: v, Dim: Dimensionless} }
func Seconds(v float64) Quantity      { return Quantity{Value: v, Dim: Time} }
func Milliseconds(v float64) Quantity { return Quantity{Value: v * 1e-3, Dim: Time} }
func Volts(v float64) Quantity        { return Quantity{Value: v, Dim: Voltage} }
func Millivolts(v float64) Quantity   { return Quantity{Value: v * 1e-3, Dim: Voltage} }
func Siemens(v float64) Quantity      { return Quantity{Value: v, Dim: Conductance} }
func Nanosiemens(v float64) Quantity  { return Quantity{Value: v * 1e-9, Dim: Conductance} }
func Farads(v float64) Quantity       { return Quantity{Value: v, Dim: Capacitance} }
func Nanofarads(v float64) Quantity   { return Quantity{Value: v * 1e-9, Dim: Capacitance} }

// New builds a quantity from a magnitude expressed in the given unit symbol.
func New(v float64, symbol string) (Quantity, error) {
	if symbol == "" || symbol == "1" {
		return Scalar(v), nil
	}
	u, ok := lookup(symbol)
	if !ok {
		return Quantity{}, fmt.Errorf("%w: %q", ErrUnknownUnit, symbol)
	}
	return Quantity{Value: v * u.scale, Dim: u.dim}, nil
}

// Compatible reports whether q and other share a dimension.
func (q Quantity) Compatible(other Quantity) bool {
	return q.Dim == other.Dim
}

// In returns the magnitude of q expressed in the named unit.
func (q Quantity) In(symbol string) (float64, error) {
	u, ok := lookup(symbol)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, symbol)
	}
	if u.dim != q.Dim {
		return 0, fmt.Errorf("%w: %s to %s", ErrIncompatible, q.Dim, u.dim)
	}
	return q.Value / u.scale, nil
}

// Unit returns the display symbol String would use for q.
func (q Quantity) Unit() string {
	_, sym := q.display()
	return sym
}

func (q Quantity) display() (float64, string) {
	if q.Dim == Dimensionless {
		return q.Value, ""
	}
	abs := math.Abs(q.Value)
	var best unit
	for _, u := range units {
		if u.dim != q.Dim {
			continue
		}
		best = u
		if abs == 0 {
			// zero reads best in the milli/nano unit used for neuron parameters
			if u.scale <= 1e-3 {
				break
			}
			continue
		}
		if abs/u.scale >= 0.1 {
			break
		}
	}
	return q.Value / best.scale, best.symbol
}

func (q Quantity) String() string {
	v, sym := q.display()
	num := strconv.FormatFloat(roundDisplay(v), 'g', -1, 64)
	if sym == "" {
		return num
	}
	return num + " " + sym
}

// roundDisplay trims float noise introduced by prefix scaling (0.3e-9/1e-9).
func roundDisplay(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'g', 12, 64), 64)
	if err != nil {
		return v
	}
	return r
}

// Parse reads "<number> [unit]", e.g. "5 ms", "-70mV" or "0.7".
func Parse(s string) (Quantity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Quantity{}, fmt.Errorf("%w: empty", ErrMalformed)
	}
	split := len(s)
	for i, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			// exponent marker inside the number
			if (r == 'e' || r == 'E') && i > 0 && i+1 < len(s) && isExponentTail(s[i+1:]) {
				continue
			}
			split = i
			break
		}
	}
	numPart := strings.TrimSpace(s[:split])
	unitPart := strings.TrimSpace(s[split:])
	v, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return Quantity{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	return New(v, unitPart)
}

func isExponentTail(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) Quantity {
	q, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return q
}
