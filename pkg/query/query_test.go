package query_test

import (
	"strings"
	"testing"

	"github.com/albmartin/po-intake/pkg/query"
)

func runProjection() *query.ProjectionMap {
	return query.
		NewProjectionMap("public", "runs", "r").
		Project("id", "ID").
		Project("sender", "Sender").
		Project("po_id", "POID").
		Project("final_status", "FinalStatus").
		Project("received_at", "ReceivedAt")
}

func TestProjectionMap(t *testing.T) {
	p := runProjection()

	if got := p.From(); got != "public.runs r" {
		t.Errorf("From = %q", got)
	}
	if got := p.Column("Sender"); got != "r.sender" {
		t.Errorf("Column(Sender) = %q", got)
	}
	if got := p.Column("unmapped"); got != "unmapped" {
		t.Errorf("Column(unmapped) = %q, want passthrough", got)
	}
	if got := p.Columns(); got != "r.id, r.sender, r.po_id, r.final_status, r.received_at" {
		t.Errorf("Columns = %q", got)
	}
}

func TestBuildCount(t *testing.T) {
	status := "completed"
	sql, args := query.NewBuilder(runProjection()).
		WhereEquals("FinalStatus", &status).
		BuildCount()

	want := "SELECT COUNT(*) FROM public.runs r WHERE r.final_status = $1"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 1 {
		t.Errorf("args = %v", args)
	}
}

func TestBuildPage(t *testing.T) {
	status := "completed"
	sender := "acme"
	sql, args := query.NewBuilder(runProjection(), query.SortField{Field: "ReceivedAt", Descending: true}).
		WhereEquals("FinalStatus", &status).
		WhereContains("Sender", &sender).
		BuildPage(2, 25)

	if !strings.Contains(sql, "WHERE r.final_status = $1 AND r.sender ILIKE $2") {
		t.Errorf("sql = %q", sql)
	}
	if !strings.Contains(sql, "ORDER BY r.received_at DESC") {
		t.Errorf("sql = %q", sql)
	}
	if !strings.HasSuffix(sql, "LIMIT 25 OFFSET 25") {
		t.Errorf("sql = %q", sql)
	}
	if len(args) != 2 || args[1] != "%acme%" {
		t.Errorf("args = %v", args)
	}
}

func TestBuildPageOrderByOverride(t *testing.T) {
	sql, _ := query.NewBuilder(runProjection(), query.SortField{Field: "ReceivedAt", Descending: true}).
		OrderByFields([]query.SortField{{Field: "Sender"}}).
		BuildPage(1, 10)

	if !strings.Contains(sql, "ORDER BY r.sender ASC") {
		t.Errorf("sql = %q", sql)
	}
	if strings.Contains(sql, "received_at DESC") {
		t.Errorf("default sort should be overridden: %q", sql)
	}
}

func TestBuildSingle(t *testing.T) {
	sql, args := query.NewBuilder(runProjection()).BuildSingle("ID", "abc-123")

	want := "SELECT r.id, r.sender, r.po_id, r.final_status, r.received_at FROM public.runs r WHERE r.id = $1"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 1 || args[0] != "abc-123" {
		t.Errorf("args = %v", args)
	}
}

func TestWhereSearch(t *testing.T) {
	search := "po-10"
	sql, args := query.NewBuilder(runProjection()).
		WhereSearch(&search, "Sender", "POID").
		BuildCount()

	if !strings.Contains(sql, "(r.sender ILIKE $1 OR r.po_id ILIKE $2)") {
		t.Errorf("sql = %q", sql)
	}
	if len(args) != 2 || args[0] != "%po-10%" || args[1] != "%po-10%" {
		t.Errorf("args = %v", args)
	}
}

func TestNilFiltersIgnored(t *testing.T) {
	sql, args := query.NewBuilder(runProjection()).
		WhereEquals("FinalStatus", (*string)(nil)).
		WhereContains("Sender", nil).
		WhereSearch(nil, "Sender").
		BuildCount()

	if strings.Contains(sql, "WHERE") {
		t.Errorf("sql = %q, want no WHERE clause", sql)
	}
	if len(args) != 0 {
		t.Errorf("args = %v", args)
	}
}

func TestParseSortFields(t *testing.T) {
	fields := query.ParseSortFields("sender, -received_at")
	if len(fields) != 2 {
		t.Fatalf("fields = %+v", fields)
	}
	if fields[0].Field != "sender" || fields[0].Descending {
		t.Errorf("fields[0] = %+v", fields[0])
	}
	if fields[1].Field != "received_at" || !fields[1].Descending {
		t.Errorf("fields[1] = %+v", fields[1])
	}

	if query.ParseSortFields("") != nil {
		t.Error("empty input should return nil")
	}
}
