package desensitize

import (
	"fmt"
	"regexp"
	"sync/atomic"
)

// Rule 脱敏规则
type Rule interface {
	Name() string
	Enabled() bool
	SetEnabled(enabled bool)
	// Process 对字符串进行脱敏处理
	Process(s string) string
}

type toggle struct {
	disabled atomic.Bool
}

func (t *toggle) Enabled() bool { return !t.disabled.Load() }

func (t *toggle) SetEnabled(enabled bool) { t.disabled.Store(!enabled) }

// ContentRule 基于内容匹配的脱敏规则
type ContentRule struct {
	toggle
	name        string
	pattern     *regexp.Regexp
	replacement string
}

// NewContentRule 创建基于内容匹配的脱敏规则，replacement 支持 $1 形式的分组引用
func NewContentRule(name, pattern, replacement string) (*ContentRule, error) {
	if name == "" {
		return nil, fmt.Errorf("rule name cannot be empty")
	}
	regex, err := regexp.Compile(pattern)
	if err != nil || pattern == "" {
		return nil, fmt.Errorf("invalid pattern '%s': %w", pattern, err)
	}
	return &ContentRule{name: name, pattern: regex, replacement: replacement}, nil
}

// MustNewContentRule 创建规则，失败时 panic（用于内置规则）
func MustNewContentRule(name, pattern, replacement string) *ContentRule {
	rule, err := NewContentRule(name, pattern, replacement)
	if err != nil {
		panic(err)
	}
	return rule
}

func (r *ContentRule) Name() string { return r.name }

func (r *ContentRule) Process(s string) string {
	if !r.Enabled() {
		return s
	}
	return r.pattern.ReplaceAllString(s, r.replacement)
}

// FieldRule 替换 JSON 字符串字段的值
type FieldRule struct {
	toggle
	name        string
	field       string
	replacement string
	jsonPattern *regexp.Regexp
}

// NewFieldRule 创建基于字段名匹配的脱敏规则
func NewFieldRule(name, field, replacement string) (*FieldRule, error) {
	if name == "" || field == "" {
		return nil, fmt.Errorf("rule name and field cannot be empty")
	}
	jsonPattern, err := regexp.Compile(fmt.Sprintf(`"%s"\s*:\s*"(?:[^"\\]|\\.)*"`, regexp.QuoteMeta(field)))
	if err != nil {
		return nil, fmt.Errorf("failed to compile json pattern: %w", err)
	}
	return &FieldRule{name: name, field: field, replacement: replacement, jsonPattern: jsonPattern}, nil
}

// MustNewFieldRule 创建规则，失败时 panic
func MustNewFieldRule(name, field, replacement string) *FieldRule {
	rule, err := NewFieldRule(name, field, replacement)
	if err != nil {
		panic(err)
	}
	return rule
}

func (r *FieldRule) Name() string { return r.name }

func (r *FieldRule) Process(s string) string {
	if !r.Enabled() {
		return s
	}
	return r.jsonPattern.ReplaceAllLiteralString(s, fmt.Sprintf(`"%s":"%s"`, r.field, r.replacement))
}
