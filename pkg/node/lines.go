package node

import (
	"fmt"
	"strconv"
	"strings"
)

// BuildLines returns the display lines of a node.
//
// When the configuration yields no content, or only the type's generic
// label, the result is the single line [Type.Label]. The result always has
// at least one element and is never shared with the caller's input.
func BuildLines(t Type, cfg Config) []string {
	c, _ := Decode(t, cfg)
	return LinesOf(t, c)
}

// LinesOf applies the generic-label fallback to an already decoded Content.
func LinesOf(t Type, c Content) []string {
	label := t.Label()
	if c == nil {
		return []string{label}
	}
	lines := c.Lines()
	if len(lines) == 0 || (len(lines) == 1 && lines[0] == label) {
		return []string{label}
	}
	return lines
}

const (
	maxSplits        = 100
	unmatchedDefault = "未命中人群"
	eventMissing     = "未配置事件"
)

func (c StartContent) Lines() []string {
	var lines []string
	if c.TaskType != "" {
		lines = append(lines, "任务类型："+TaskTypeLabel(c.TaskType))
	}
	if names := names(c.TargetAudience); len(names) > 0 {
		lines = append(lines, "目标人群："+strings.Join(names, "、"))
	}
	return lines
}

func (EndContent) Lines() []string { return nil }

func (c SMSContent) Lines() []string {
	return passthrough("短信模板：", c.Template)
}

func (c AICallContent) Lines() []string {
	return passthrough("外呼任务：", c.TaskID)
}

// Lines renders the config id with the description in parentheses, so a
// manual call keeps a single output.
func (c ManualCallContent) Lines() []string {
	id, desc := strings.TrimSpace(c.ConfigID), strings.TrimSpace(c.Description)
	switch {
	case id != "" && desc != "":
		return []string{"配置：" + id + "（" + desc + "）"}
	case id != "":
		return []string{"配置：" + id}
	}
	return passthrough("说明：", desc)
}

var waitUnits = map[string]string{
	"":        "分钟",
	"m":       "分钟",
	"minute":  "分钟",
	"minutes": "分钟",
	"h":       "小时",
	"hour":    "小时",
	"hours":   "小时",
	"d":       "天",
	"day":     "天",
	"days":    "天",
}

func (c WaitContent) Lines() []string {
	d := strings.TrimSpace(c.Duration)
	if d == "" {
		return nil
	}
	unit, ok := waitUnits[strings.ToLower(strings.TrimSpace(c.Unit))]
	if !ok {
		unit = c.Unit
	}
	return []string{"等待：" + d + unit}
}

func (c BenefitContent) Lines() []string {
	return passthrough("权益：", c.BenefitName)
}

// Lines prefers crowd layers, then a bare split count, then branches.
func (c CrowdSplitContent) Lines() []string {
	var hits []string
	unmatched := strings.TrimSpace(c.UnmatchedName)

	switch {
	case len(c.CrowdLayers) > 0:
		for i, l := range c.CrowdLayers {
			hits = append(hits, orDefault(l.Name, splitName(i)))
		}
	case c.SplitCount > 0:
		for i := range min(c.SplitCount, maxSplits) {
			hits = append(hits, splitName(i))
		}
	default:
		for _, b := range c.Branches {
			if b.IsDefault {
				if unmatched == "" {
					unmatched = strings.TrimSpace(b.Name)
				}
				continue
			}
			hits = append(hits, orDefault(b.Name, splitName(len(hits))))
		}
	}
	if len(hits) == 0 {
		return nil
	}

	lines := make([]string, 0, len(hits)+1)
	for _, h := range hits {
		lines = append(lines, "命中："+h)
	}
	return append(lines, "否则："+orDefault(unmatched, unmatchedDefault))
}

func (c EventSplitContent) Lines() []string {
	event := c.EventName
	if len(c.Events) > 0 && strings.TrimSpace(c.Events[0].Name) != "" {
		event = c.Events[0].Name
	}
	miss := "未命中"
	if t := strings.TrimSpace(c.Timeout); t != "" && t != "0" {
		miss = fmt.Sprintf("等待 %s 分钟未命中", t)
	}
	return []string{"命中：" + orDefault(event, eventMissing), miss}
}

// Lines reads the first non-empty of branches, variants and versions.
func (c ABTestContent) Lines() []string {
	arms := c.Branches
	if len(arms) == 0 {
		arms = c.Variants
	}
	if len(arms) == 0 {
		arms = c.Versions
	}
	lines := make([]string, 0, len(arms))
	for i, a := range arms {
		name := orDefault(a.Name, versionName(i))
		lines = append(lines, name+"："+strconv.FormatFloat(a.share(), 'f', -1, 64)+"%")
	}
	return lines
}

func (a Arm) share() float64 {
	for _, v := range []*float64{a.Percentage, a.Ratio, a.Weight} {
		if v != nil {
			return *v
		}
	}
	return 0
}

func passthrough(prefix, v string) []string {
	if v = strings.TrimSpace(v); v == "" {
		return nil
	}
	return []string{prefix + v}
}

func names(items []Named) []string {
	var out []string
	for _, it := range items {
		if n := strings.TrimSpace(it.Name); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}

func splitName(i int) string {
	return fmt.Sprintf("分流%d", i+1)
}

// versionName returns 版本A, 版本B, ... and falls back to numbers past Z.
func versionName(i int) string {
	if i < 26 {
		return "版本" + string(rune('A'+i))
	}
	return fmt.Sprintf("版本%d", i+1)
}
