package flags

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/marks/internal/org"
	"github.com/Paintersrp/marks/internal/search"
)

func AddFilters(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringSlice("tagged", nil, "Tags every matching section must carry (inherited from parent headings)")
	f.StringArray("prop", nil, "KEY=value property the section or a parent must have; repeatable")
	f.StringSlice("todo", nil, "Accepted TODO keywords of the innermost heading, e.g. TODO,DONE")
	f.StringSlice("priority", nil, "Accepted priorities of the innermost heading, e.g. A,B")
	f.String("priority-lt", "", "Only headings with a priority lower than this")
	f.String("priority-gt", "", "Only headings with a priority higher than this")
	f.String("scheduled-at", "", "Only headings SCHEDULED at this org timestamp or date")
	f.String("deadline-at", "", "Only headings with a DEADLINE at this org timestamp or date")
}

// HandleFilters reads the structural filter flags into search criteria.
func HandleFilters(cmd *cobra.Command) (search.Criteria, error) {
	var criteria search.Criteria
	f := cmd.Flags()

	tags, err := f.GetStringSlice("tagged")
	if err != nil {
		return criteria, err
	}
	criteria.Tags = trimAll(tags)

	props, err := f.GetStringArray("prop")
	if err != nil {
		return criteria, err
	}
	for _, raw := range props {
		prop, err := ParseProperty(raw)
		if err != nil {
			return criteria, err
		}
		criteria.Props = append(criteria.Props, prop)
	}

	todos, err := f.GetStringSlice("todo")
	if err != nil {
		return criteria, err
	}
	for _, todo := range trimAll(todos) {
		criteria.Todo = append(criteria.Todo, org.Todo(strings.ToUpper(todo)))
	}

	priorities, err := f.GetStringSlice("priority")
	if err != nil {
		return criteria, err
	}
	for _, p := range trimAll(priorities) {
		criteria.Priorities = append(criteria.Priorities, org.Priority(p))
	}

	lt, err := f.GetString("priority-lt")
	if err != nil {
		return criteria, err
	}
	criteria.PriorityLT = org.Priority(strings.TrimSpace(lt))

	gt, err := f.GetString("priority-gt")
	if err != nil {
		return criteria, err
	}
	criteria.PriorityGT = org.Priority(strings.TrimSpace(gt))

	scheduled, err := f.GetString("scheduled-at")
	if err != nil {
		return criteria, err
	}
	deadline, err := f.GetString("deadline-at")
	if err != nil {
		return criteria, err
	}

	switch {
	case scheduled != "" && deadline != "":
		return criteria, errors.New("--scheduled-at and --deadline-at cannot be combined")
	case scheduled != "":
		criteria.Schedule, err = ParseSchedule(scheduled, org.PlanScheduled)
	case deadline != "":
		criteria.Schedule, err = ParseSchedule(deadline, org.PlanDeadline)
	}
	if err != nil {
		return criteria, err
	}

	return criteria, nil
}

// ParseProperty splits KEY=value at the first '='.
func ParseProperty(s string) (search.Property, error) {
	key, value, ok := strings.Cut(s, "=")
	if !ok {
		return search.Property{}, fmt.Errorf("invalid PROP=value: no `=` found in `%s`", s)
	}
	return search.Property{Key: key, Value: value}, nil
}

// ParseSchedule accepts an org timestamp, with or without a planning label,
// or any date dateparse understands. The plan is always forced to plan.
func ParseSchedule(value string, plan org.Plan) (*org.DateTime, error) {
	value = strings.TrimSpace(value)

	if dt, err := org.ParseTimestamp(value); err == nil {
		dt.Plan = plan
		return &dt, nil
	}

	t, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid %s date %q: %w", strings.ToLower(plan.String()), value, err)
	}

	start := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
	return &org.DateTime{Plan: plan, Active: true, Start: start}, nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
