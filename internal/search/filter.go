package search

import "github.com/Paintersrp/marks/internal/org"

type filterKind int

const (
	filterTags filterKind = iota
	filterProps
	filterTodo
	filterPriority
	filterPriorityBelow
	filterPriorityAbove
	filterSchedule
)

func (c Criteria) filters() []filterKind {
	var kinds []filterKind
	if len(c.Tags) > 0 {
		kinds = append(kinds, filterTags)
	}
	if len(c.Props) > 0 {
		kinds = append(kinds, filterProps)
	}
	if len(c.Todo) > 0 {
		kinds = append(kinds, filterTodo)
	}
	if len(c.Priorities) > 0 {
		kinds = append(kinds, filterPriority)
	}
	if c.PriorityLT != "" {
		kinds = append(kinds, filterPriorityBelow)
	}
	if c.PriorityGT != "" {
		kinds = append(kinds, filterPriorityAbove)
	}
	if c.Schedule != nil {
		kinds = append(kinds, filterSchedule)
	}
	return kinds
}

// accepts evaluates one filter against the ancestor chain. Tags and
// properties may come from any ancestor, everything else is read from the
// innermost heading.
func (c *Criteria) accepts(kind filterKind, chain []*org.Header) bool {
	if len(chain) == 0 {
		return false
	}
	current := chain[len(chain)-1]

	switch kind {
	case filterTags:
		for _, tag := range c.Tags {
			if !anyHeader(chain, func(h *org.Header) bool { return h.HasTag(tag) }) {
				return false
			}
		}
		return true
	case filterProps:
		for _, prop := range c.Props {
			if !anyHeader(chain, func(h *org.Header) bool { return h.HasProperty(prop.Key, prop.Value) }) {
				return false
			}
		}
		return true
	case filterTodo:
		if current.Todo == org.TodoNone {
			return false
		}
		for _, todo := range c.Todo {
			if current.Todo == todo {
				return true
			}
		}
		return false
	case filterPriority:
		if current.Priority == "" {
			return false
		}
		for _, p := range c.Priorities {
			if current.Priority == p {
				return true
			}
		}
		return false
	case filterPriorityBelow:
		return current.Priority != "" && current.Priority.Less(c.PriorityLT)
	case filterPriorityAbove:
		return current.Priority != "" && current.Priority.Greater(c.PriorityGT)
	case filterSchedule:
		return current.DateTime != nil && org.Equal(*current.DateTime, *c.Schedule)
	default:
		return false
	}
}

func anyHeader(chain []*org.Header, pred func(*org.Header) bool) bool {
	for _, h := range chain {
		if pred(h) {
			return true
		}
	}
	return false
}
