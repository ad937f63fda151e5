package node

import (
	"github.com/matzehuels/flowcanvas/pkg/errors"
)

// Type identifies the kind of task a node performs.
type Type string

const (
	Start         Type = "start"
	End           Type = "end"
	SMS           Type = "sms"
	AICall        Type = "ai-call"
	ManualCall    Type = "manual-call"
	Wait          Type = "wait"
	Benefit       Type = "benefit"
	CrowdSplit    Type = "crowd-split"
	AudienceSplit Type = "audience-split"
	EventSplit    Type = "event-split"
	ABTest        Type = "ab-test"
)

// DefaultTitle is the header title of a node that has no better name.
const DefaultTitle = "节点"

var allTypes = []Type{
	Start, End, SMS, AICall, ManualCall, Wait, Benefit,
	CrowdSplit, AudienceSplit, EventSplit, ABTest,
}

var labels = map[Type]string{
	Start:         "开始",
	End:           "结束",
	SMS:           "短信触达",
	AICall:        "AI外呼",
	ManualCall:    "人工外呼",
	Wait:          "等待节点",
	Benefit:       "权益节点",
	CrowdSplit:    "人群分流",
	AudienceSplit: "人群分流",
	EventSplit:    "事件分流",
	ABTest:        "AB实验",
}

// AllTypes returns every known node type in a stable order.
func AllTypes() []Type {
	return append([]Type(nil), allTypes...)
}

// ParseType converts a wire value into a Type.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if _, ok := labels[t]; !ok {
		return "", errors.New(errors.ErrCodeInvalidNodeType, "unknown node type: %q", s)
	}
	return t, nil
}

// Valid reports whether t is a known node type.
func (t Type) Valid() bool {
	_, ok := labels[t]
	return ok
}

// Label returns the generic display label of the type, or [DefaultTitle]
// for unknown types.
func (t Type) Label() string {
	if l, ok := labels[t]; ok {
		return l
	}
	return DefaultTitle
}

// IsTerminal reports whether t is a start or end node. Terminal nodes have
// no action menu.
func (t Type) IsTerminal() bool {
	return t == Start || t == End
}

// IsSplit reports whether t routes to one of several branches.
func (t Type) IsSplit() bool {
	switch t {
	case CrowdSplit, AudienceSplit, EventSplit, ABTest:
		return true
	}
	return false
}

var taskTypeLabels = map[string]string{
	"marketing":    "营销活动",
	"notification": "通知推送",
	"survey":       "问卷调研",
	"retention":    "用户留存",
}

// TaskTypeLabel returns the display label of a start node's task type code.
// Unknown codes are returned unchanged.
func TaskTypeLabel(code string) string {
	if l, ok := taskTypeLabels[code]; ok {
		return l
	}
	return code
}
