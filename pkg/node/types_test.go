package node

import (
	"testing"

	"github.com/matzehuels/flowcanvas/pkg/errors"
)

func TestParseType(t *testing.T) {
	for _, typ := range AllTypes() {
		got, err := ParseType(string(typ))
		if err != nil || got != typ {
			t.Errorf("ParseType(%q) = %q, %v", typ, got, err)
		}
	}

	_, err := ParseType("email")
	if !errors.Is(err, errors.ErrCodeInvalidNodeType) {
		t.Errorf("ParseType(email) error = %v, want INVALID_NODE_TYPE", err)
	}
}

func TestTypeLabel(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{Start, "开始"},
		{End, "结束"},
		{CrowdSplit, "人群分流"},
		{AudienceSplit, "人群分流"},
		{ABTest, "AB实验"},
		{Type("unknown"), DefaultTitle},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			if got := tt.typ.Label(); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTypePredicates(t *testing.T) {
	if !Start.IsTerminal() || !End.IsTerminal() || SMS.IsTerminal() {
		t.Error("IsTerminal() wrong for start/end/sms")
	}
	if !EventSplit.IsSplit() || Wait.IsSplit() {
		t.Error("IsSplit() wrong for event-split/wait")
	}
	if Type("x").Valid() || !Benefit.Valid() {
		t.Error("Valid() wrong")
	}
}

// Every type must decode to its own variant; a type added to AllTypes
// without a Decode case fails here.
func TestDecodeCoversAllTypes(t *testing.T) {
	for _, typ := range AllTypes() {
		c, err := Decode(typ, Config{})
		if err != nil {
			t.Errorf("Decode(%s) error = %v", typ, err)
		}
		if c == nil {
			t.Errorf("Decode(%s) returned nil content", typ)
		}
	}

	if _, err := Decode(Type("email"), Config{}); !errors.Is(err, errors.ErrCodeInvalidNodeType) {
		t.Errorf("Decode(email) error = %v, want INVALID_NODE_TYPE", err)
	}
}

func TestDecodePartial(t *testing.T) {
	c, err := Decode(ManualCall, Config{"configId": "c1", "description": []any{map[string]any{"x": 1}}})
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("Decode() error = %v, want INVALID_CONFIG", err)
	}
	mc, ok := c.(ManualCallContent)
	if !ok {
		t.Fatalf("Decode() = %T, want ManualCallContent", c)
	}
	if mc.ConfigID != "c1" {
		t.Errorf("ConfigID = %q, want c1", mc.ConfigID)
	}
}

func TestConfigHelpers(t *testing.T) {
	cfg := Config{"nodeName": "  欢迎短信 ", "count": 3, "nil": nil}
	if got := cfg.NodeName(); got != "欢迎短信" {
		t.Errorf("NodeName() = %q", got)
	}
	if got := cfg.String("count"); got != "3" {
		t.Errorf("String(count) = %q", got)
	}
	if got := cfg.String("nil"); got != "" {
		t.Errorf("String(nil) = %q", got)
	}

	clone := cfg.Clone()
	clone["nodeName"] = "x"
	if cfg.NodeName() == "x" {
		t.Error("Clone() shares storage")
	}
	if Config(nil).Clone() != nil {
		t.Error("Clone() of nil should be nil")
	}
}

func TestTaskTypeLabel(t *testing.T) {
	if got := TaskTypeLabel("retention"); got != "用户留存" {
		t.Errorf("TaskTypeLabel(retention) = %q", got)
	}
	if got := TaskTypeLabel("custom"); got != "custom" {
		t.Errorf("TaskTypeLabel(custom) = %q", got)
	}
}
