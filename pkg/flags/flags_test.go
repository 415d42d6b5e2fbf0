package flags

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/marks/internal/org"
	"github.com/Paintersrp/marks/internal/search"
)

func newCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "marks"}
	AddFilters(cmd)
	AddPath(cmd)
	if err := cmd.Flags().Parse(args); err != nil {
		t.Fatalf("parsing %v: %v", args, err)
	}
	return cmd
}

func TestHandleFilters(t *testing.T) {
	cmd := newCmd(t,
		"--tagged", "work,urgent",
		"--prop", "OWNER=me",
		"--prop", "EXPR=a=b",
		"--todo", "todo,DONE",
		"--priority", "A", "--priority", "B",
		"--priority-lt", "C",
		"--priority-gt", "5",
		"--deadline-at", "<2024-05-01 Wed>",
	)

	got, err := HandleFilters(cmd)
	if err != nil {
		t.Fatalf("HandleFilters returned error: %v", err)
	}

	want := search.Criteria{
		Tags: []string{"work", "urgent"},
		Props: []search.Property{
			{Key: "OWNER", Value: "me"},
			{Key: "EXPR", Value: "a=b"},
		},
		Todo:       []org.Todo{org.TodoTodo, org.TodoDone},
		Priorities: []org.Priority{"A", "B"},
		PriorityLT: "C",
		PriorityGT: "5",
		Schedule: &org.DateTime{
			Plan:   org.PlanDeadline,
			Active: true,
			Start:  time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("criteria mismatch (-want +got):\n%s", diff)
	}
	if !got.Structural() {
		t.Fatalf("expected criteria to be structural")
	}
}

func TestHandleFiltersDefaults(t *testing.T) {
	got, err := HandleFilters(newCmd(t))
	if err != nil {
		t.Fatalf("HandleFilters returned error: %v", err)
	}
	if diff := cmp.Diff(search.Criteria{}, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("criteria mismatch (-want +got):\n%s", diff)
	}
	if got.Structural() {
		t.Fatalf("expected no structural filters")
	}
}

func TestHandleFiltersErrors(t *testing.T) {
	tests := map[string][]string{
		"prop without equals": {"--prop", "OWNER"},
		"both plans":          {"--scheduled-at", "2024-05-01", "--deadline-at", "2024-05-02"},
		"bad date":            {"--scheduled-at", "not a date at all"},
	}

	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := HandleFilters(newCmd(t, args...)); err == nil {
				t.Fatalf("expected error for %v", args)
			}
		})
	}
}

func TestParseProperty(t *testing.T) {
	prop, err := ParseProperty("KEY=")
	if err != nil {
		t.Fatalf("ParseProperty returned error: %v", err)
	}
	if prop != (search.Property{Key: "KEY"}) {
		t.Fatalf("unexpected property %+v", prop)
	}

	_, err = ParseProperty("KEY")
	if err == nil || !strings.Contains(err.Error(), "no `=` found") {
		t.Fatalf("expected missing '=' error, got %v", err)
	}
}

func TestParseSchedule(t *testing.T) {
	tests := []struct {
		name  string
		value string
		plan  org.Plan
		want  org.DateTime
	}{
		{
			name:  "org timestamp keeps time and activity",
			value: "[2024-05-01 Wed 09:30]",
			plan:  org.PlanScheduled,
			want: org.DateTime{
				Plan:  org.PlanScheduled,
				Start: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
			},
		},
		{
			name:  "planning label is overridden",
			value: "SCHEDULED: <2024-05-01 Wed>",
			plan:  org.PlanDeadline,
			want: org.DateTime{
				Plan:   org.PlanDeadline,
				Active: true,
				Start:  time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			},
		},
		{
			name:  "plain date",
			value: "2024-05-01",
			plan:  org.PlanScheduled,
			want: org.DateTime{
				Plan:   org.PlanScheduled,
				Active: true,
				Start:  time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			},
		},
		{
			name:  "date and time",
			value: "2024-05-01 14:05",
			plan:  org.PlanDeadline,
			want: org.DateTime{
				Plan:   org.PlanDeadline,
				Active: true,
				Start:  time.Date(2024, 5, 1, 14, 5, 0, 0, time.UTC),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSchedule(tt.value, tt.plan)
			if err != nil {
				t.Fatalf("ParseSchedule returned error: %v", err)
			}
			if diff := cmp.Diff(tt.want, *got); diff != "" {
				t.Fatalf("schedule mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHandlePath(t *testing.T) {
	cmd := newCmd(t)
	if got, _ := HandlePath(cmd, nil, 1); got != "." {
		t.Fatalf("expected current directory, got %q", got)
	}
	if got, _ := HandlePath(cmd, []string{"query", "notes"}, 1); got != "notes" {
		t.Fatalf("expected positional path, got %q", got)
	}

	cmd = newCmd(t, "--path", "docs")
	if got, _ := HandlePath(cmd, []string{"query", "notes"}, 1); got != "docs" {
		t.Fatalf("expected flag path, got %q", got)
	}
}
