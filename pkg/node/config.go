package node

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Config is the free-form configuration of a node as edited in the UI.
// No field is required.
type Config map[string]any

// String returns the value at key rendered as a string, or "" when absent.
func (c Config) String(key string) string {
	v, ok := c[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return fmt.Sprint(v)
}

// NodeName returns the user-assigned node name, if any.
func (c Config) NodeName() string {
	return c.String("nodeName")
}

// Clone returns a shallow copy of the configuration.
func (c Config) Clone() Config {
	if c == nil {
		return nil
	}
	out := make(Config, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// nameKeys are the keys a list element may carry its display name under,
// in order of preference.
var nameKeys = []string{"name", "crowdName", "label", "title", "content"}

var namedTypes = map[reflect.Type]bool{
	reflect.TypeOf(Named{}):  true,
	reflect.TypeOf(Branch{}): true,
	reflect.TypeOf(Arm{}):    true,
}

// nameHook lets list elements be given either as plain strings or as objects
// naming themselves under any of nameKeys.
func nameHook(from, to reflect.Type, data any) (any, error) {
	if !namedTypes[to] {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		return map[string]any{"name": v}, nil
	case map[string]any:
		if _, ok := v["name"]; ok {
			return v, nil
		}
		out := make(map[string]any, len(v)+1)
		for k, val := range v {
			out[k] = val
		}
		for _, k := range nameKeys[1:] {
			if val, ok := v[k]; ok && val != nil {
				out["name"] = val
				break
			}
		}
		return out, nil
	}
	return data, nil
}

func decodeInto(cfg Config, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       nameHook,
		WeaklyTypedInput: true,
		Result:           target,
	})
	if err != nil {
		return err
	}
	return dec.Decode(map[string]any(cfg))
}
