// Package pipeline runs a whole flow through assembly, validation, and
// rendering.
//
// The CLI and the HTTP API both go through [Runner], so a flow produces the
// same specs, findings, and artifacts regardless of entry point.
//
// # Stages
//
//  1. Assemble: build a spec for every node in the flow
//  2. Validate: check port counts and alignment per node, and edge wiring
//     across the flow
//  3. Render: paint SVG previews and JSON exports
//  4. Measure (optional): read painted geometry back and re-check alignment
//     against it
//
// # Usage
//
//	runner := pipeline.NewRunner(nil, logger)
//	result, err := runner.Execute(ctx, f, pipeline.Options{
//	    Formats: []string{"svg"},
//	    Measure: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowcanvas/pkg/assemble"
	"github.com/matzehuels/flowcanvas/pkg/errors"
	"github.com/matzehuels/flowcanvas/pkg/layout"
	"github.com/matzehuels/flowcanvas/pkg/validate"
)

// DefaultConcurrency bounds how many nodes are assembled at once.
const DefaultConcurrency = 8

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
}

// Options contains all configuration for a pipeline run.
type Options struct {
	// Formats to render. Empty renders nothing.
	Formats []string `json:"formats,omitempty"`

	// Style nodes are assembled and painted with. The zero value selects
	// layout.DefaultStyle.
	Style layout.Style `json:"style"`

	// AbsolutePorts emits output ports as absolute {x, y} positions.
	AbsolutePorts bool `json:"absolute_ports,omitempty"`

	// Tolerance for output port alignment, in pixels. Zero selects
	// validate.DefaultTolerance.
	Tolerance float64 `json:"tolerance,omitempty"`

	// Measure re-checks alignment against painted geometry.
	Measure bool `json:"measure,omitempty"`

	// Concurrency bounds parallel assembly. Zero selects DefaultConcurrency.
	Concurrency int `json:"concurrency,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Name of the flow.
	Name string

	// Specs are the assembled nodes, in flow order.
	Specs []assemble.Spec

	// Reports holds one validation report per node id.
	Reports map[string]validate.Report

	// EdgeFindings are wiring problems across the flow.
	EdgeFindings []validate.Finding

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	EdgeCount    int
	InvalidCount int
	AssembleTime time.Duration
	ValidateTime time.Duration
	RenderTime   time.Duration
	MeasureTime  time.Duration
}

// Valid reports whether every node passed validation. Edge findings are
// warnings and do not affect it.
func (r *Result) Valid() bool {
	return r.Stats.InvalidCount == 0
}

// InvalidNodes returns the ids of nodes whose report is invalid, sorted.
func (r *Result) InvalidNodes() []string {
	var ids []string
	for id, rep := range r.Reports {
		if !rep.IsValid {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks options and applies defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Style == (layout.Style{}) {
		o.Style = layout.DefaultStyle()
	}
	if err := o.Style.Validate(); err != nil {
		return err
	}
	if o.Tolerance < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "tolerance must not be negative: %v", o.Tolerance)
	}
	if o.Tolerance == 0 {
		o.Tolerance = validate.DefaultTolerance
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// HasFormat reports whether format was requested.
func (o *Options) HasFormat(format string) bool {
	for _, f := range o.Formats {
		if f == format {
			return true
		}
	}
	return false
}

func (o *Options) validateOptions(s assemble.Spec) validate.Options {
	return validate.Options{
		Type:      s.Data.NodeType,
		Height:    s.Height,
		Style:     o.Style,
		Tolerance: o.Tolerance,
	}
}

func (s Stats) String() string {
	return fmt.Sprintf("%d nodes, %d edges, %d invalid", s.NodeCount, s.EdgeCount, s.InvalidCount)
}
