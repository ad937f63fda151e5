package node

import (
	"github.com/matzehuels/flowcanvas/pkg/errors"
)

// Content is the typed configuration of one node. The set of
// implementations is closed: one per [Type], with AudienceSplit sharing
// [CrowdSplitContent].
type Content interface {
	// Lines renders the raw display lines, before the generic-label fallback.
	Lines() []string
	content()
}

// Named is a list element that only contributes its name.
type Named struct {
	Name string `mapstructure:"name"`
}

// Branch is a split branch. A default branch collects unmatched traffic.
type Branch struct {
	Name      string `mapstructure:"name"`
	IsDefault bool   `mapstructure:"isDefault"`
}

// Arm is one experiment group of an AB test.
type Arm struct {
	Name       string   `mapstructure:"name"`
	Percentage *float64 `mapstructure:"percentage"`
	Ratio      *float64 `mapstructure:"ratio"`
	Weight     *float64 `mapstructure:"weight"`
}

type StartContent struct {
	TaskType       string  `mapstructure:"taskType"`
	TargetAudience []Named `mapstructure:"targetAudience"`
}

type EndContent struct{}

type SMSContent struct {
	Template string `mapstructure:"smsTemplate"`
}

type AICallContent struct {
	TaskID string `mapstructure:"taskId"`
}

type ManualCallContent struct {
	ConfigID    string `mapstructure:"configId"`
	Description string `mapstructure:"description"`
}

type WaitContent struct {
	Duration string `mapstructure:"duration"`
	Unit     string `mapstructure:"unit"`
}

type BenefitContent struct {
	BenefitName string `mapstructure:"benefitName"`
}

type CrowdSplitContent struct {
	CrowdLayers   []Named  `mapstructure:"crowdLayers"`
	SplitCount    int      `mapstructure:"splitCount"`
	Branches      []Branch `mapstructure:"branches"`
	UnmatchedName string   `mapstructure:"unmatchedName"`
}

type EventSplitContent struct {
	Events    []Named `mapstructure:"events"`
	EventName string  `mapstructure:"eventName"`
	Timeout   string  `mapstructure:"timeout"`
}

type ABTestContent struct {
	Branches []Arm `mapstructure:"branches"`
	Variants []Arm `mapstructure:"variants"`
	Versions []Arm `mapstructure:"versions"`
}

func (StartContent) content()      {}
func (EndContent) content()        {}
func (SMSContent) content()        {}
func (AICallContent) content()     {}
func (ManualCallContent) content() {}
func (WaitContent) content()       {}
func (BenefitContent) content()    {}
func (CrowdSplitContent) content() {}
func (EventSplitContent) content() {}
func (ABTestContent) content()     {}

// Decode converts a raw configuration into the Content variant for t.
//
// Field-level problems (a list given as a number, say) do not abort
// decoding: the returned Content holds every field that could be read and
// the error, coded INVALID_CONFIG, describes the rest. Only an unknown type
// yields a nil Content.
func Decode(t Type, cfg Config) (Content, error) {
	var c Content
	var err error
	switch t {
	case Start:
		var v StartContent
		err = decodeInto(cfg, &v)
		c = v
	case End:
		c = EndContent{}
	case SMS:
		var v SMSContent
		err = decodeInto(cfg, &v)
		c = v
	case AICall:
		var v AICallContent
		err = decodeInto(cfg, &v)
		c = v
	case ManualCall:
		var v ManualCallContent
		err = decodeInto(cfg, &v)
		c = v
	case Wait:
		var v WaitContent
		err = decodeInto(cfg, &v)
		c = v
	case Benefit:
		var v BenefitContent
		err = decodeInto(cfg, &v)
		c = v
	case CrowdSplit, AudienceSplit:
		var v CrowdSplitContent
		err = decodeInto(cfg, &v)
		c = v
	case EventSplit:
		var v EventSplitContent
		err = decodeInto(cfg, &v)
		c = v
	case ABTest:
		var v ABTestContent
		err = decodeInto(cfg, &v)
		c = v
	default:
		return nil, errors.New(errors.ErrCodeInvalidNodeType, "unknown node type: %q", string(t))
	}
	if err != nil {
		return c, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode %s config", t)
	}
	return c, nil
}
