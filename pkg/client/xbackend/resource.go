package xbackend

import (
	"fmt"
	"strings"
)

// Resource 后端资源名
type Resource string

const (
	Students Resource = "students"
	Coaches  Resource = "coaches"
	Branches Resource = "branches"
	Courses  Resource = "courses"
	Payments Resource = "payments"
)

var allResources = []Resource{Students, Coaches, Branches, Courses, Payments}

// Resources 返回全部资源，顺序固定
func Resources() []Resource {
	out := make([]Resource, len(allResources))
	copy(out, allResources)
	return out
}

// ParseResource 解析资源名，大小写不敏感
func ParseResource(s string) (Resource, error) {
	r := Resource(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownResource, s)
	}
	return r, nil
}

// Valid 报告 r 是否为已知资源
func (r Resource) Valid() bool {
	for _, known := range allResources {
		if r == known {
			return true
		}
	}
	return false
}

func (r Resource) String() string { return string(r) }

// Item 后端返回的单条记录，字段随资源而不同
type Item map[string]any

// ID 返回记录的 id 字段，缺失时为空串
func (it Item) ID() string {
	v, ok := it["id"]
	if !ok || v == nil {
		return ""
	}
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return fmt.Sprintf("%.0f", id)
	default:
		return fmt.Sprint(id)
	}
}
