// Package browser measures painted node geometry in a headless Chromium.
//
// The static measurement in package sink reads back the coordinates the SVG
// writer chose. [Measurer] instead asks a real layout engine for the
// bounding boxes of rows and ports after the frame has been flushed, so
// font metrics and CSS affect the result the same way they do on the
// canvas.
package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/matzehuels/flowcanvas/pkg/errors"
	"github.com/matzehuels/flowcanvas/pkg/render/sink"
)

// Defaults applied by [New].
const (
	DefaultTimeout         = 30 * time.Second
	DefaultConnectAttempts = 3
	DefaultConnectDelay    = 500 * time.Millisecond
)

// measureJS waits two animation frames so layout has settled, then reports
// row and port centers in each node group's local coordinates.
const measureJS = `async () => {
	await new Promise(r => requestAnimationFrame(() => requestAnimationFrame(r)));
	const out = {};
	for (const g of document.querySelectorAll('g[data-node-id]')) {
		const m = { rows: {}, ports: {} };
		for (const el of g.querySelectorAll('[data-row]')) {
			const b = el.getBBox();
			m.rows[el.getAttribute('data-row')] = b.y + b.height / 2;
		}
		for (const el of g.querySelectorAll('[data-port]')) {
			const b = el.getBBox();
			m.ports[el.getAttribute('data-port')] = b.y + b.height / 2;
		}
		out[g.getAttribute('data-node-id')] = m;
	}
	return out;
}`

// Options configure a [Measurer].
type Options struct {
	// Bin is the browser executable. Empty lets the launcher find or
	// download one.
	Bin string
	// ControlURL connects to an already running browser instead of
	// launching one.
	ControlURL string
	Headless   bool
	Timeout    time.Duration

	// ConnectAttempts bounds how often a remote ControlURL is dialed
	// before giving up. The delay doubles after each failure.
	ConnectAttempts int
	ConnectDelay    time.Duration
}

// Measurer renders SVG documents in a browser and measures them. It
// launches the browser on first use and is safe for concurrent use.
type Measurer struct {
	opts Options

	mu      sync.Mutex
	browser *rod.Browser
}

// New returns a Measurer. No browser is started until [Measurer.Measure].
func New(opts Options) *Measurer {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.ConnectAttempts <= 0 {
		opts.ConnectAttempts = DefaultConnectAttempts
	}
	if opts.ConnectDelay <= 0 {
		opts.ConnectDelay = DefaultConnectDelay
	}
	return &Measurer{opts: opts}
}

// Name identifies the backend in logs and metrics.
func (m *Measurer) Name() string { return "browser" }

// Available reports whether a browser executable can be found locally.
func Available() bool {
	_, ok := launcher.LookPath()
	return ok
}

// connect launches or dials the browser once. A remote browser that is
// still starting up is retried with backoff.
func (m *Measurer) connect(ctx context.Context) (*rod.Browser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.browser != nil {
		return m.browser, nil
	}

	u := m.opts.ControlURL
	if u == "" {
		l := launcher.New().Headless(m.opts.Headless)
		if m.opts.Bin != "" {
			l = l.Bin(m.opts.Bin)
		}
		var err error
		if u, err = l.Launch(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeMeasurement, err, "launch browser")
		}
	}

	var b *rod.Browser
	err := retry(ctx, m.opts.ConnectAttempts, m.opts.ConnectDelay, func() error {
		candidate := rod.New().ControlURL(u)
		if err := candidate.Connect(); err != nil {
			if m.opts.ControlURL != "" {
				return &retryableError{err}
			}
			return err
		}
		b = candidate
		return nil
	})
	if err != nil {
		return nil, measureErr(ctx, err, "connect to browser")
	}
	m.browser = b
	return b, nil
}

// Measure loads svg into a fresh page and returns per-node measurements
// keyed by node id.
func (m *Measurer) Measure(ctx context.Context, svg []byte) (map[string]*sink.Measurement, error) {
	b, err := m.connect(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, m.opts.Timeout)
	defer cancel()

	page, err := b.Context(ctx).Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, measureErr(ctx, err, "open page")
	}
	defer func() { _ = page.Close() }()

	html := fmt.Sprintf("<!DOCTYPE html><html><body style=\"margin:0\">%s</body></html>", svg)
	if err := page.SetDocumentContent(html); err != nil {
		return nil, measureErr(ctx, err, "load document")
	}

	res, err := page.Evaluate(&rod.EvalOptions{JS: measureJS, ByValue: true, AwaitPromise: true})
	if err != nil {
		return nil, measureErr(ctx, err, "measure document")
	}
	raw, err := res.Value.MarshalJSON()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMeasurement, err, "marshal measurement")
	}
	return decode(raw)
}

// Close shuts the browser down. The Measurer may be reused afterwards.
func (m *Measurer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.browser == nil {
		return nil
	}
	err := m.browser.Close()
	m.browser = nil
	return err
}

func decode(raw []byte) (map[string]*sink.Measurement, error) {
	var nodes map[string]struct {
		Rows  map[int]float64    `json:"rows"`
		Ports map[string]float64 `json:"ports"`
	}
	if err := json.Unmarshal(raw, &nodes); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMeasurement, err, "decode measurement")
	}
	out := make(map[string]*sink.Measurement, len(nodes))
	for id, n := range nodes {
		m := &sink.Measurement{NodeID: id, Rows: n.Rows, Ports: n.Ports}
		if m.Rows == nil {
			m.Rows = map[int]float64{}
		}
		if m.Ports == nil {
			m.Ports = map[string]float64{}
		}
		out[id] = m
	}
	return out, nil
}

func measureErr(ctx context.Context, err error, what string) error {
	if ctx.Err() == context.DeadlineExceeded {
		return errors.Wrap(errors.ErrCodeTimeout, err, "%s", what)
	}
	return errors.Wrap(errors.ErrCodeMeasurement, err, "%s", what)
}
