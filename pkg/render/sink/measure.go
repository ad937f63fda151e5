package sink

import (
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"strconv"

	"github.com/matzehuels/flowcanvas/pkg/errors"
)

// Measurement is the painted geometry of one node, as offsets from the
// node's top edge. It implements validate.Renderer.
type Measurement struct {
	NodeID string
	Rows   map[int]float64
	Ports  map[string]float64
}

// RowCenterY returns the vertical middle of the painted row i.
func (m *Measurement) RowCenterY(i int) (float64, bool) {
	y, ok := m.Rows[i]
	return y, ok
}

// PortCenterY returns the painted center of the port with the given id.
func (m *Measurement) PortCenterY(id string) (float64, bool) {
	y, ok := m.Ports[id]
	return y, ok
}

// Static measures the coordinates [RenderSVG] wrote into the document,
// without a layout engine.
type Static struct{}

// Name identifies the backend in logs and metrics.
func (Static) Name() string { return "static" }

// Measure parses svg with [ParseSVG].
func (Static) Measure(_ context.Context, svg []byte) (map[string]*Measurement, error) {
	return ParseSVG(svg)
}

// ParseSVG reads the annotations written by [RenderSVG] back into
// per-node measurements keyed by node id. Coordinates are local to each
// node group, which is translated onto the canvas as a whole.
func ParseSVG(data []byte) (map[string]*Measurement, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	out := make(map[string]*Measurement)

	var cur *Measurement
	depth, nodeDepth := 0, -1
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse svg")
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if id, ok := attr(t, "data-node-id"); ok && t.Name.Local == "g" {
				cur = &Measurement{NodeID: id, Rows: map[int]float64{}, Ports: map[string]float64{}}
				out[id] = cur
				nodeDepth = depth
				continue
			}
			if cur == nil {
				continue
			}
			if err := cur.record(t); err != nil {
				return nil, err
			}
		case xml.EndElement:
			if depth == nodeDepth {
				cur, nodeDepth = nil, -1
			}
			depth--
		}
	}
	return out, nil
}

func (m *Measurement) record(el xml.StartElement) error {
	switch el.Name.Local {
	case "rect":
		raw, ok := attr(el, "data-row")
		if !ok {
			return nil
		}
		i, err := strconv.Atoi(raw)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidFormat, "node %s: bad row index %q", m.NodeID, raw)
		}
		y, err := floatAttr(el, "y")
		if err != nil {
			return err
		}
		h, err := floatAttr(el, "height")
		if err != nil {
			return err
		}
		m.Rows[i] = y + h/2
	case "circle":
		id, ok := attr(el, "data-port")
		if !ok {
			return nil
		}
		cy, err := floatAttr(el, "cy")
		if err != nil {
			return err
		}
		m.Ports[id] = cy
	}
	return nil
}

func attr(el xml.StartElement, name string) (string, bool) {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func floatAttr(el xml.StartElement, name string) (float64, error) {
	raw, ok := attr(el, name)
	if !ok {
		return 0, errors.New(errors.ErrCodeInvalidFormat, "<%s> is missing %s", el.Name.Local, name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidFormat, "<%s %s=%q>: not a number", el.Name.Local, name, raw)
	}
	return v, nil
}
