package validate

import (
	"fmt"
)

// Kind classifies a finding.
type Kind string

const (
	// PortCountMismatch means the node shows a different number of
	// branches than it has output ports.
	PortCountMismatch Kind = "port_count_mismatch"
	// OutputPortAlignment means an output port is off its row.
	OutputPortAlignment Kind = "output_port_alignment"
	// InputPortAlignment means the input port is off the vertical center.
	InputPortAlignment Kind = "input_port_alignment"
	// PortIDFormat means port ids are not prefix-0..prefix-(n-1).
	PortIDFormat Kind = "port_id_format"
)

// Finding is one error or warning.
type Finding struct {
	Type      Kind    `json:"type"`
	Message   string  `json:"message"`
	PortID    string  `json:"portId,omitempty"`
	Expected  float64 `json:"expected"`
	Actual    float64 `json:"actual"`
	Deviation float64 `json:"deviation"`
}

func (f Finding) String() string {
	if f.PortID != "" {
		return fmt.Sprintf("%s [%s]: %s", f.Type, f.PortID, f.Message)
	}
	return fmt.Sprintf("%s: %s", f.Type, f.Message)
}

// Details summarizes what was checked.
type Details struct {
	NodeType        string  `json:"nodeType,omitempty"`
	LineCount       int     `json:"lineCount"`
	InputPorts      int     `json:"inputPorts"`
	OutputPorts     int     `json:"outputPorts"`
	ExpectedOutputs int     `json:"expectedOutputs"`
	Height          float64 `json:"height"`
	Tolerance       float64 `json:"tolerance"`
	Representation  string  `json:"representation,omitempty"`
	MaxDeviation    float64 `json:"maxDeviation"`
	Measured        bool    `json:"measured,omitempty"`
}

// Report aggregates findings. Warnings never affect IsValid.
type Report struct {
	IsValid  bool      `json:"isValid"`
	Errors   []Finding `json:"errors"`
	Warnings []Finding `json:"warnings"`
	Details  Details   `json:"details"`
}

func newReport() Report {
	return Report{IsValid: true, Errors: []Finding{}, Warnings: []Finding{}}
}

func (r *Report) addError(f Finding) {
	r.Errors = append(r.Errors, f)
	r.IsValid = false
}

func (r *Report) addWarning(f Finding) {
	r.Warnings = append(r.Warnings, f)
}

// Merge returns a report holding the findings of both r and other. Details
// are taken from r.
func (r Report) Merge(other Report) Report {
	out := Report{
		Errors:   append(append([]Finding{}, r.Errors...), other.Errors...),
		Warnings: append(append([]Finding{}, r.Warnings...), other.Warnings...),
		Details:  r.Details,
	}
	out.IsValid = len(out.Errors) == 0
	out.Details.MaxDeviation = max(r.Details.MaxDeviation, other.Details.MaxDeviation)
	out.Details.Measured = r.Details.Measured || other.Details.Measured
	return out
}

// Count returns the number of findings of kind k, errors and warnings together.
func (r Report) Count(k Kind) int {
	n := 0
	for _, f := range r.Errors {
		if f.Type == k {
			n++
		}
	}
	for _, f := range r.Warnings {
		if f.Type == k {
			n++
		}
	}
	return n
}
