package query_test

import (
	"testing"

	"github.com/vidaleve/sofia/pkg/query"
)

func testProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "analyses", "a").
		Project("id", "ID").
		Project("status", "Status").
		Project("message", "Message").
		Project("analyzed_at", "AnalyzedAt")
}

func ptr(s string) *string { return &s }

func TestProjectionMapFrom(t *testing.T) {
	p := testProjection()
	got := p.From()
	want := "public.analyses a"
	if got != want {
		t.Errorf("From() = %q, want %q", got, want)
	}
}

func TestProjectionMapColumns(t *testing.T) {
	p := testProjection()
	got := p.Columns()
	want := "a.id, a.status, a.message, a.analyzed_at"
	if got != want {
		t.Errorf("Columns() = %q, want %q", got, want)
	}
}

func TestProjectionMapColumnLookup(t *testing.T) {
	p := testProjection()

	tests := []struct {
		name     string
		viewName string
		want     string
	}{
		{"mapped field", "Status", "a.status"},
		{"mapped snake target", "AnalyzedAt", "a.analyzed_at"},
		{"unmapped passthrough", "unknown", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Column(tt.viewName); got != tt.want {
				t.Errorf("Column(%q) = %q, want %q", tt.viewName, got, tt.want)
			}
		})
	}
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []query.SortField
	}{
		{
			name:  "empty string",
			input: "",
			want:  nil,
		},
		{
			name:  "single ascending",
			input: "Status",
			want:  []query.SortField{{Field: "Status", Descending: false}},
		},
		{
			name:  "single descending",
			input: "-AnalyzedAt",
			want:  []query.SortField{{Field: "AnalyzedAt", Descending: true}},
		},
		{
			name:  "multiple mixed",
			input: "Status,-AnalyzedAt",
			want: []query.SortField{
				{Field: "Status", Descending: false},
				{Field: "AnalyzedAt", Descending: true},
			},
		},
		{
			name:  "with spaces",
			input: " Status , -AnalyzedAt ",
			want: []query.SortField{
				{Field: "Status", Descending: false},
				{Field: "AnalyzedAt", Descending: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := query.ParseSortFields(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("length = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBuildCount(t *testing.T) {
	sql, args := query.NewBuilder(testProjection()).
		WhereEquals("Status", "pending").
		BuildCount()

	want := "SELECT COUNT(*) FROM public.analyses a WHERE a.status = $1"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 1 || args[0] != "pending" {
		t.Errorf("args = %v, want [pending]", args)
	}
}

func TestBuildPage(t *testing.T) {
	sql, args := query.NewBuilder(testProjection(), query.SortField{Field: "AnalyzedAt", Descending: true}).
		WhereSearch(ptr("almoço"), "Message").
		BuildPage(2, 20)

	want := "SELECT a.id, a.status, a.message, a.analyzed_at FROM public.analyses a" +
		" WHERE (a.message ILIKE $1) ORDER BY a.analyzed_at DESC LIMIT 20 OFFSET 20"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 1 || args[0] != "%almoço%" {
		t.Errorf("args = %v, want [%%almoço%%]", args)
	}
}

func TestBuildSingle(t *testing.T) {
	sql, args := query.NewBuilder(testProjection()).BuildSingle("ID", "abc")

	want := "SELECT a.id, a.status, a.message, a.analyzed_at FROM public.analyses a WHERE a.id = $1"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 1 || args[0] != "abc" {
		t.Errorf("args = %v, want [abc]", args)
	}
}

func TestWhereIn(t *testing.T) {
	sql, args := query.NewBuilder(testProjection()).
		WhereIn("Status", []any{"pending", "confirmed"}).
		BuildCount()

	want := "SELECT COUNT(*) FROM public.analyses a WHERE a.status IN ($1, $2)"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 2 {
		t.Errorf("args = %v, want 2 entries", args)
	}
}

func TestWhereConditionsNoOp(t *testing.T) {
	sql, args := query.NewBuilder(testProjection()).
		WhereEquals("Status", nil).
		WhereContains("Message", nil).
		WhereContains("Message", ptr("")).
		WhereIn("Status", nil).
		WhereSearch(nil, "Message").
		BuildCount()

	want := "SELECT COUNT(*) FROM public.analyses a"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want none", args)
	}
}

func TestOrderByOverridesDefault(t *testing.T) {
	sql, _ := query.NewBuilder(testProjection(), query.SortField{Field: "AnalyzedAt", Descending: true}).
		OrderByFields([]query.SortField{{Field: "Status"}}).
		BuildPage(1, 10)

	want := "SELECT a.id, a.status, a.message, a.analyzed_at FROM public.analyses a" +
		" ORDER BY a.status ASC LIMIT 10 OFFSET 0"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
}
