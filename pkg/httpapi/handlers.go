package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/flowcanvas/pkg/assemble"
	"github.com/matzehuels/flowcanvas/pkg/buildinfo"
	"github.com/matzehuels/flowcanvas/pkg/flow"
	"github.com/matzehuels/flowcanvas/pkg/node"
	"github.com/matzehuels/flowcanvas/pkg/pipeline"
	"github.com/matzehuels/flowcanvas/pkg/ports"
	"github.com/matzehuels/flowcanvas/pkg/validate"
)

// NodeReport is the body of POST /v1/nodes/validate.
type NodeReport struct {
	Spec   assemble.Spec   `json:"spec"`
	Report validate.Report `json:"report"`
}

// FlowResult is the body of POST /v1/flows.
type FlowResult struct {
	Name         string                     `json:"name,omitempty"`
	Valid        bool                       `json:"valid"`
	Specs        []assemble.Spec            `json:"specs"`
	Reports      map[string]validate.Report `json:"reports"`
	EdgeFindings []validate.Finding         `json:"edgeFindings"`
}

// NodeType describes one node type and its port policy for a single line.
type NodeType struct {
	Type          node.Type `json:"type"`
	Label         string    `json:"label"`
	Split         bool      `json:"split"`
	IncludeIn     bool      `json:"includeIn"`
	IncludeOut    bool      `json:"includeOut"`
	FixedOutCount *int      `json:"fixedOutCount,omitempty"`
}

// NodeTypes lists every node type. FixedOutCount is set for types whose
// output count does not follow the line count.
func NodeTypes() []NodeType {
	var out []NodeType
	for _, t := range node.AllTypes() {
		p := ports.PolicyFor(t, 1)
		nt := NodeType{
			Type:       t,
			Label:      t.Label(),
			Split:      t.IsSplit(),
			IncludeIn:  p.IncludeIn,
			IncludeOut: p.IncludeOut,
		}
		if p2 := ports.PolicyFor(t, 2); p2.OutCount == p.OutCount {
			n := p.OutCount
			nt.FixedOutCount = &n
		}
		out = append(out, nt)
	}
	return out
}

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Get()})
}

func (s *server) createNode(w http.ResponseWriter, r *http.Request) {
	var req assemble.Request
	if !s.decode(w, r, &req) {
		return
	}
	spec, err := s.assembler.Assemble(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, spec)
}

func (s *server) validateNode(w http.ResponseWriter, r *http.Request) {
	var req assemble.Request
	if !s.decode(w, r, &req) {
		return
	}
	spec, err := s.assembler.Assemble(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rep := pipeline.Check(spec, pipeline.Options{Style: s.cfg.Style})
	writeJSON(w, http.StatusOK, NodeReport{Spec: spec, Report: rep})
}

func (s *server) runFlow(w http.ResponseWriter, r *http.Request) {
	var f flow.Flow
	if !s.decode(w, r, &f) {
		return
	}
	res, err := s.runner.Execute(r.Context(), &f, pipeline.Options{
		Style:         s.cfg.Style,
		AbsolutePorts: s.cfg.AbsolutePorts,
		Logger:        s.logger,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := FlowResult{
		Name:         res.Name,
		Valid:        res.Valid(),
		Specs:        res.Specs,
		Reports:      res.Reports,
		EdgeFindings: res.EdgeFindings,
	}
	if out.Specs == nil {
		out.Specs = []assemble.Spec{}
	}
	if out.EdgeFindings == nil {
		out.EdgeFindings = []validate.Finding{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) nodeTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, NodeTypes())
}

func (s *server) style(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cfg.Style)
}

// decode reads a JSON body into v. It writes a problem and returns false
// when the body is unreadable.
func (s *server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeProblem(w, r, http.StatusBadRequest, "malformed_body", err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
