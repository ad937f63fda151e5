package flow

import (
	"fmt"

	"github.com/matzehuels/flowcanvas/pkg/assemble"
	"github.com/matzehuels/flowcanvas/pkg/ports"
	"github.com/matzehuels/flowcanvas/pkg/validate"
)

// Edge finding kinds.
const (
	// EdgePortMissing means an edge attaches to a port its node does not have.
	EdgePortMissing validate.Kind = "edge_port_missing"
	// PortConnectionLimit means more edges leave a port than it accepts.
	PortConnectionLimit validate.Kind = "port_connection_limit"
)

// ResolvedSourcePort returns the edge's source port, defaulting to out-0.
func (e Edge) ResolvedSourcePort() string {
	if e.SourcePort != "" {
		return e.SourcePort
	}
	return ports.OutID(0)
}

// ResolvedTargetPort returns the edge's target port, defaulting to the input port.
func (e Edge) ResolvedTargetPort() string {
	if e.TargetPort != "" {
		return e.TargetPort
	}
	return ports.InputID
}

// CheckEdges reports edges whose ports do not exist on the assembled nodes,
// and output ports with more edges than their connection limit. Edges stay
// drawable either way, so every finding is a warning.
func CheckEdges(specs []assemble.Spec, edges []Edge) []validate.Finding {
	byID := make(map[string]assemble.Spec, len(specs))
	for _, s := range specs {
		byID[s.ID] = s
	}

	var findings []validate.Finding
	usage := make(map[string]int)
	for i, e := range edges {
		name := e.ID
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}

		src, sp := byID[e.Source], e.ResolvedSourcePort()
		if it, ok := src.Ports.Find(sp); !ok || it.Group != ports.GroupOut {
			findings = append(findings, validate.Finding{
				Type:    EdgePortMissing,
				PortID:  sp,
				Message: fmt.Sprintf("edge %s: node %q has no output port %q", name, e.Source, sp),
			})
		} else {
			usage[e.Source+"/"+sp]++
			if limit := maxConnections(src); limit > 0 && usage[e.Source+"/"+sp] == limit+1 {
				findings = append(findings, validate.Finding{
					Type:     PortConnectionLimit,
					PortID:   sp,
					Message:  fmt.Sprintf("node %q port %q accepts %d connection(s)", e.Source, sp, limit),
					Expected: float64(limit),
					Actual:   float64(limit + 1),
				})
			}
		}

		dst, tp := byID[e.Target], e.ResolvedTargetPort()
		if it, ok := dst.Ports.Find(tp); !ok || it.Group != ports.GroupIn {
			findings = append(findings, validate.Finding{
				Type:    EdgePortMissing,
				PortID:  tp,
				Message: fmt.Sprintf("edge %s: node %q has no input port %q", name, e.Target, tp),
			})
		}
	}
	return findings
}

func maxConnections(s assemble.Spec) int {
	if s.Ports.Groups.Out == nil {
		return 0
	}
	return s.Ports.Groups.Out.ConnectOptions.MaxConnections
}
