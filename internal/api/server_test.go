package api

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"

	"github.com/pbaille/taskboard/internal/config"
	"github.com/pbaille/taskboard/internal/store"
	"github.com/pbaille/taskboard/internal/tracker"
)

var today = time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

type testServer struct {
	t      *testing.T
	now    time.Time
	router http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ts := &testServer{t: t, now: today}
	n := 0
	tr := tracker.New(store.NewMemory(),
		tracker.WithClock(func() time.Time { return ts.now }),
		tracker.WithIDs(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
	cfg := config.DefaultConfig()
	cfg.Pagination.DefaultLimit = 5
	cfg.Pagination.MaxLimit = 10
	ts.router = New(tr, cfg).Handler()
	return ts
}

// do performs a request and returns the recorder
func (ts *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	ts.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

// expect performs a request, checks the status and returns the JSON body
func (ts *testServer) expect(status int, method, path, body string) string {
	ts.t.Helper()
	w := ts.do(method, path, body)
	if w.Code != status {
		ts.t.Fatalf("%s %s: expected status %d, got %d: %s", method, path, status, w.Code, w.Body.String())
	}
	return w.Body.String()
}

func (ts *testServer) createTag(name, color string) string {
	ts.t.Helper()
	body := ts.expect(http.StatusCreated, "POST", "/api/v1/tags",
		fmt.Sprintf(`{"name":%q,"color":%q}`, name, color))
	return gjson.Get(body, "data.id").String()
}

func (ts *testServer) createTask(body string) string {
	ts.t.Helper()
	resp := ts.expect(http.StatusCreated, "POST", "/api/v1/tasks", body)
	return gjson.Get(resp, "data.id").String()
}

func TestHealthAndRoot(t *testing.T) {
	ts := newTestServer(t)

	body := ts.expect(http.StatusOK, "GET", "/health", "")
	if gjson.Get(body, "status").String() != "healthy" {
		t.Errorf("unexpected health body: %s", body)
	}
	ts.expect(http.StatusOK, "GET", "/", "")

	body = ts.expect(http.StatusNotFound, "GET", "/api/v1/nope", "")
	if gjson.Get(body, "error.code").String() != "NOT_FOUND" {
		t.Errorf("unexpected error body: %s", body)
	}
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do("OPTIONS", "/api/v1/tasks", "")
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected allow-origin *, got %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); got == "" {
		t.Error("expected allow-methods header")
	}
}

func TestTaskLifecycle(t *testing.T) {
	ts := newTestServer(t)
	work := ts.createTag("Work", "#4285F4")

	id := ts.createTask(fmt.Sprintf(`{"title":"Write docs","type":"simple","tags":[%q]}`, work))

	body := ts.expect(http.StatusOK, "GET", "/api/v1/tasks/"+id, "")
	if gjson.Get(body, "data.title").String() != "Write docs" ||
		gjson.Get(body, "data.type").String() != "simple" ||
		gjson.Get(body, "data.completedAt").Type != gjson.Null ||
		gjson.Get(body, "data.progress").Int() != 0 ||
		gjson.Get(body, "data.subTasks.#").Int() != 0 {
		t.Errorf("unexpected task body: %s", body)
	}

	ts.now = today.Add(time.Hour)
	body = ts.expect(http.StatusOK, "PATCH", "/api/v1/tasks/"+id+"/toggle", "")
	if !gjson.Get(body, "data.completed").Bool() || gjson.Get(body, "data.progress").Int() != 100 {
		t.Errorf("expected completed task: %s", body)
	}
	if got := gjson.Get(body, "data.completedAt").Time(); !got.Equal(ts.now) {
		t.Errorf("expected completedAt %v, got %v", ts.now, got)
	}

	body = ts.expect(http.StatusOK, "PATCH", "/api/v1/tasks/"+id, `{"title":"Write more docs","completed":false}`)
	if gjson.Get(body, "data.title").String() != "Write more docs" || gjson.Get(body, "data.completed").Bool() {
		t.Errorf("unexpected update body: %s", body)
	}

	body = ts.expect(http.StatusOK, "PATCH", "/api/v1/tasks/"+id+"/archive", "")
	if !gjson.Get(body, "data.archived").Bool() {
		t.Errorf("expected archived: %s", body)
	}
	body = ts.expect(http.StatusOK, "PATCH", "/api/v1/tasks/"+id+"/restore", "")
	if gjson.Get(body, "data.archived").Bool() {
		t.Errorf("expected restored: %s", body)
	}

	w := ts.do("DELETE", "/api/v1/tasks/"+id, "")
	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Errorf("expected empty 204, got %d %q", w.Code, w.Body.String())
	}
	ts.expect(http.StatusNotFound, "GET", "/api/v1/tasks/"+id, "")
	ts.expect(http.StatusNotFound, "DELETE", "/api/v1/tasks/"+id, "")
}

func TestCreateTask_Errors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"title":`},
		{"missing title", `{"type":"simple"}`},
		{"bad type", `{"title":"x","type":"epic"}`},
		{"unknown tag", `{"title":"x","type":"simple","tags":["nope"]}`},
		{"subtasks on simple", `{"title":"x","type":"simple","subTasks":[{"title":"a"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := ts.expect(http.StatusBadRequest, "POST", "/api/v1/tasks", tt.body)
			if gjson.Get(body, "error.code").String() != "VALIDATION_ERROR" {
				t.Errorf("unexpected error body: %s", body)
			}
		})
	}
}

func TestSubTaskFlow(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createTask(`{"title":"Trip","type":"advanced","subTasks":[{"title":"book"},{"title":"pack"},{"title":"go"}]}`)

	body := ts.expect(http.StatusOK, "GET", "/api/v1/tasks/"+id, "")
	subs := gjson.Get(body, "data.subTasks.#.id").Array()
	if len(subs) != 3 {
		t.Fatalf("expected 3 subtasks: %s", body)
	}

	for _, sub := range subs[:2] {
		ts.now = ts.now.Add(time.Minute)
		body = ts.expect(http.StatusOK, "PATCH", "/api/v1/tasks/"+id+"/subtasks/"+sub.String()+"/toggle", "")
	}
	if gjson.Get(body, "data.progress").Int() != 67 || gjson.Get(body, "data.completed").Bool() {
		t.Errorf("expected 67%% open task: %s", body)
	}

	ts.now = ts.now.Add(time.Minute)
	body = ts.expect(http.StatusOK, "PATCH", "/api/v1/tasks/"+id+"/subtasks/"+subs[2].String(), `{"completed":true}`)
	if !gjson.Get(body, "data.completed").Bool() || !gjson.Get(body, "data.completedAt").Time().Equal(ts.now) {
		t.Errorf("expected completed task at %v: %s", ts.now, body)
	}

	body = ts.expect(http.StatusCreated, "POST", "/api/v1/tasks/"+id+"/subtasks", `{"title":"return"}`)
	if gjson.Get(body, "data.subTasks.#").Int() != 4 || gjson.Get(body, "data.completed").Bool() {
		t.Errorf("expected reopened task with 4 subtasks: %s", body)
	}
	newSub := gjson.Get(body, "data.subTasks.3.id").String()

	body = ts.expect(http.StatusOK, "DELETE", "/api/v1/tasks/"+id+"/subtasks/"+newSub, "")
	if gjson.Get(body, "data.subTasks.#").Int() != 3 || !gjson.Get(body, "data.completed").Bool() {
		t.Errorf("expected completed task with 3 subtasks: %s", body)
	}

	ts.expect(http.StatusNotFound, "PATCH", "/api/v1/tasks/"+id+"/subtasks/missing/toggle", "")
	ts.expect(http.StatusNotFound, "POST", "/api/v1/tasks/missing/subtasks", `{"title":"x"}`)

	simple := ts.createTask(`{"title":"plain","type":"simple"}`)
	body = ts.expect(http.StatusBadRequest, "POST", "/api/v1/tasks/"+simple+"/subtasks", `{"title":"x"}`)
	if gjson.Get(body, "error.code").String() != "VALIDATION_ERROR" {
		t.Errorf("unexpected error body: %s", body)
	}
}

func TestListTasks(t *testing.T) {
	ts := newTestServer(t)
	work := ts.createTag("Work", "#4285F4")
	home := ts.createTag("Home", "#EA4335")

	var ids []string
	for i := 0; i < 5; i++ {
		ts.now = ts.now.Add(time.Minute)
		tags := work
		if i%2 == 1 {
			tags = home
		}
		ids = append(ids, ts.createTask(fmt.Sprintf(`{"title":"task %d","type":"simple","tags":[%q]}`, i, tags)))
	}
	ts.expect(http.StatusOK, "PATCH", "/api/v1/tasks/"+ids[0]+"/toggle", "")
	ts.expect(http.StatusOK, "PATCH", "/api/v1/tasks/"+ids[4]+"/archive", "")

	tests := []struct {
		query      string
		wantIDs    []string
		total      int
		totalPages int
	}{
		{"", []string{ids[3], ids[2], ids[1], ids[0]}, 4, 1},
		{"?status=active", []string{ids[3], ids[2], ids[1]}, 3, 1},
		{"?status=completed", []string{ids[0]}, 1, 1},
		{"?archived=true", []string{ids[4]}, 1, 1},
		{"?tags=" + home, []string{ids[3], ids[1]}, 2, 1},
		{"?tags=" + home + "," + work + "&limit=3", []string{ids[3], ids[2], ids[1]}, 4, 2},
		{"?limit=3&page=2", []string{ids[0]}, 4, 2},
		{"?tags=unknown", []string{}, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			body := ts.expect(http.StatusOK, "GET", "/api/v1/tasks"+tt.query, "")
			got := []string{}
			for _, id := range gjson.Get(body, "data.#.id").Array() {
				got = append(got, id.String())
			}
			if fmt.Sprint(got) != fmt.Sprint(tt.wantIDs) {
				t.Errorf("expected %v, got %v", tt.wantIDs, got)
			}
			if n := gjson.Get(body, "pagination.total").Int(); int(n) != tt.total {
				t.Errorf("expected total %d, got %d", tt.total, n)
			}
			if n := gjson.Get(body, "pagination.totalPages").Int(); int(n) != tt.totalPages {
				t.Errorf("expected %d pages, got %d", tt.totalPages, n)
			}
		})
	}

	for _, q := range []string{"?status=done", "?archived=maybe", "?page=0", "?limit=0", "?limit=11", "?page=x"} {
		ts.expect(http.StatusBadRequest, "GET", "/api/v1/tasks"+q, "")
	}
}

func TestTags(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createTag("Work", "#4285F4")

	body := ts.expect(http.StatusConflict, "POST", "/api/v1/tags", `{"name":"WORK","color":"#000000"}`)
	if gjson.Get(body, "error.code").String() != "CONFLICT" {
		t.Errorf("unexpected error body: %s", body)
	}
	ts.expect(http.StatusBadRequest, "POST", "/api/v1/tags", `{"name":"Other","color":"blue"}`)

	body = ts.expect(http.StatusOK, "PATCH", "/api/v1/tags/"+id, `{"name":"Job"}`)
	if gjson.Get(body, "data.name").String() != "Job" || gjson.Get(body, "data.color").String() != "#4285F4" {
		t.Errorf("expected renamed tag with color kept: %s", body)
	}

	ts.createTag("Alpha", "#111111")
	body = ts.expect(http.StatusOK, "GET", "/api/v1/tags", "")
	if names := gjson.Get(body, "data.#.name").String(); names != `["Alpha","Job"]` {
		t.Errorf("unexpected tag list: %s", names)
	}

	ts.expect(http.StatusOK, "GET", "/api/v1/tags/"+id, "")
	ts.expect(http.StatusNoContent, "DELETE", "/api/v1/tags/"+id, "")
	ts.expect(http.StatusNotFound, "GET", "/api/v1/tags/"+id, "")
	ts.expect(http.StatusNotFound, "PATCH", "/api/v1/tags/"+id, `{"name":"x"}`)
	ts.expect(http.StatusNotFound, "DELETE", "/api/v1/tags/"+id, "")
}

func TestStatsAndContributions(t *testing.T) {
	ts := newTestServer(t)

	// completions on D-2, D-1 and D
	for _, ago := range []int{2, 1, 0} {
		ts.now = today.AddDate(0, 0, -ago)
		id := ts.createTask(`{"title":"t","type":"simple"}`)
		ts.expect(http.StatusOK, "PATCH", "/api/v1/tasks/"+id+"/toggle", "")
	}
	ts.createTask(`{"title":"open","type":"advanced"}`)
	archived := ts.createTask(`{"title":"old","type":"simple"}`)
	ts.expect(http.StatusOK, "PATCH", "/api/v1/tasks/"+archived+"/archive", "")

	body := ts.expect(http.StatusOK, "GET", "/api/v1/stats", "")
	if gjson.Get(body, "data").Raw != `{"total":4,"completed":3,"active":1,"advanced":1,"archived":1}` {
		t.Errorf("unexpected stats: %s", body)
	}

	body = ts.expect(http.StatusOK, "GET", "/api/v1/contributions?days=30", "")
	if n := gjson.Get(body, "data.#").Int(); n != 30 {
		t.Errorf("expected 30 days, got %d", n)
	}
	if first := gjson.Get(body, "data.0"); first.Get("date").String() != "2025-06-15" || first.Get("count").Int() != 1 || first.Get("level").Int() != 1 {
		t.Errorf("unexpected first day: %s", first.Raw)
	}
	if s := gjson.Get(body, "summary").Raw; s != `{"totalContributions":3,"longestStreak":3,"currentStreak":3}` {
		t.Errorf("unexpected summary: %s", s)
	}

	body = ts.expect(http.StatusOK, "GET", "/api/v1/contributions?startDate=2025-06-01&endDate=2025-06-14", "")
	if n := gjson.Get(body, "data.#").Int(); n != 14 {
		t.Errorf("expected 14 days, got %d", n)
	}
	if gjson.Get(body, "data.0.date").String() != "2025-06-14" || gjson.Get(body, "data.13.date").String() != "2025-06-01" {
		t.Errorf("unexpected window bounds: %s", body)
	}
	if gjson.Get(body, "summary.currentStreak").Int() != 2 {
		t.Errorf("expected current streak 2 at endDate: %s", gjson.Get(body, "summary").Raw)
	}

	for _, q := range []string{
		"?days=0",
		"?days=366",
		"?days=abc",
		"?startDate=06/01/2025",
		"?startDate=2025-06-10&endDate=2025-06-01",
		"?startDate=2000-01-01&endDate=2025-06-01",
	} {
		body := ts.expect(http.StatusBadRequest, "GET", "/api/v1/contributions"+q, "")
		if gjson.Get(body, "error.code").String() != "VALIDATION_ERROR" {
			t.Errorf("%s: unexpected error body: %s", q, body)
		}
	}
}
