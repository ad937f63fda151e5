package ports

import "strconv"

// Group names.
const (
	GroupIn  = "in"
	GroupOut = "out"
)

// InputID is the id of the single input port.
const InputID = "in"

// OutPrefix prefixes the sequential output port ids.
const OutPrefix = "out"

// Args positions a port. Exactly one of Dy or the X/Y pair is set.
type Args struct {
	Dy *float64 `json:"dy,omitempty"`
	X  *float64 `json:"x,omitempty"`
	Y  *float64 `json:"y,omitempty"`
}

// IsAbsolute reports whether the args carry absolute coordinates.
func (a Args) IsAbsolute() bool { return a.Y != nil }

// Item is one port.
type Item struct {
	ID     string         `json:"id"`
	Group  string         `json:"group"`
	Args   Args           `json:"args"`
	Attrs  map[string]any `json:"attrs,omitempty"`
	Markup []Markup       `json:"markup,omitempty"`
}

// CenterY resolves the port's y offset from the node top for a node of the
// given height.
func (it Item) CenterY(height float64) (float64, bool) {
	switch {
	case it.Args.Y != nil:
		return *it.Args.Y, true
	case it.Args.Dy != nil:
		return height/2 + *it.Args.Dy, true
	}
	return 0, false
}

// Markup describes an SVG element painted for a port.
type Markup struct {
	TagName  string `json:"tagName"`
	Selector string `json:"selector"`
}

// Position names the positioning strategy of a group.
type Position struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// ConnectOptions limit how edges attach to a group.
type ConnectOptions struct {
	MaxConnections int `json:"maxConnections,omitempty"`
}

// GroupSpec describes a port group.
type GroupSpec struct {
	Position       Position       `json:"position"`
	Layout         string         `json:"layout,omitempty"`
	ConnectOptions ConnectOptions `json:"connectOptions"`
	Attrs          map[string]any `json:"attrs,omitempty"`
}

// Groups holds the in and out group specs. A nil group is omitted.
type Groups struct {
	In  *GroupSpec `json:"in,omitempty"`
	Out *GroupSpec `json:"out,omitempty"`
}

// Config is the complete port layout of a node.
type Config struct {
	Groups Groups `json:"groups"`
	Items  []Item `json:"items"`
}

// ByGroup returns the items of one group in order.
func (c Config) ByGroup(group string) []Item {
	var out []Item
	for _, it := range c.Items {
		if it.Group == group {
			out = append(out, it)
		}
	}
	return out
}

// Find returns the item with the given id.
func (c Config) Find(id string) (Item, bool) {
	for _, it := range c.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// OutID returns the id of the i-th output port.
func OutID(i int) string {
	return OutPrefix + "-" + strconv.Itoa(i)
}

// SequentialIDs returns prefix-0 .. prefix-(n-1).
func SequentialIDs(prefix string, n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = prefix + "-" + strconv.Itoa(i)
	}
	return ids
}

func ptr(v float64) *float64 { return &v }
