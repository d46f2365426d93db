package quantity

import (
	"errors"
	"math"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in    string
		value float64
		dim   Dimension
	}{
		{"5 ms", 5e-3, Time},
		{"-70mV", -70e-3, Voltage},
		{"2.1 nS", 2.1e-9, Conductance},
		{"0.3nF", 0.3e-9, Capacitance},
		{"1e-3 s", 1e-3, Time},
		{"0.7", 0.7, Dimensionless},
		{"  10 nS ", 10e-9, Conductance},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			q, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.in, err)
			}
			if q.Dim != tt.dim {
				t.Errorf("dim = %s, want %s", q.Dim, tt.dim)
			}
			if math.Abs(q.Value-tt.value) > 1e-15 {
				t.Errorf("value = %g, want %g", q.Value, tt.value)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"", ErrMalformed},
		{"abc", ErrMalformed},
		{"5 parsecs", ErrUnknownUnit},
		{"5 kg", ErrUnknownUnit},
	}

	for _, tt := range tests {
		if _, err := Parse(tt.in); !errors.Is(err, tt.want) {
			t.Errorf("Parse(%q) error = %v, want %v", tt.in, err, tt.want)
		}
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		q    Quantity
		want string
	}{
		{Milliseconds(5), "5 ms"},
		{Milliseconds(0.5), "0.5 ms"},
		{Milliseconds(25), "25 ms"},
		{Millivolts(-70), "-70 mV"},
		{Millivolts(0), "0 mV"},
		{Nanosiemens(2.1), "2.1 nS"},
		{Nanofarads(0.3), "0.3 nF"},
		{Seconds(2), "2 s"},
		{Scalar(0.7), "0.7"},
	}

	for _, tt := range tests {
		if got := tt.q.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestCompatible(t *testing.T) {
	if !Milliseconds(5).Compatible(Seconds(1)) {
		t.Error("ms and s should be compatible")
	}
	if Milliseconds(5).Compatible(Millivolts(5)) {
		t.Error("time and voltage should not be compatible")
	}
}

func TestIn(t *testing.T) {
	v, err := Millivolts(-70).In("V")
	if err != nil {
		t.Fatalf("In failed: %v", err)
	}
	if math.Abs(v+0.07) > 1e-12 {
		t.Errorf("expected -0.07, got %g", v)
	}

	if _, err := Millivolts(-70).In("ms"); !errors.Is(err, ErrIncompatible) {
		t.Errorf("expected ErrIncompatible, got %v", err)
	}
}

func TestDimensionBaseUnit(t *testing.T) {
	tests := map[Dimension]string{
		Time:        "second",
		Voltage:     "volt",
		Conductance: "siemens",
		Capacitance: "farad",
	}
	for d, want := range tests {
		if got := d.BaseUnit(); got != want {
			t.Errorf("%s.BaseUnit() = %q, want %q", d, got, want)
		}
	}
}

func TestYAML(t *testing.T) {
	type params struct {
		Refr Quantity `yaml:"T_refr"`
		Gl   Quantity `yaml:"gL"`
	}

	var p params
	if err := yaml.Unmarshal([]byte("T_refr: 5 ms\ngL: 10nS\n"), &p); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if p.Refr.Dim != Time || p.Gl.Dim != Conductance {
		t.Fatalf("unexpected dims: %s, %s", p.Refr.Dim, p.Gl.Dim)
	}

	out, err := yaml.Marshal(p)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(out) != "T_refr: 5 ms\ngL: 10 nS\n" {
		t.Errorf("unexpected yaml: %q", out)
	}

	if err := yaml.Unmarshal([]byte("T_refr: 5 furlongs\n"), &p); !errors.Is(err, ErrUnknownUnit) {
		t.Errorf("expected ErrUnknownUnit, got %v", err)
	}
}
