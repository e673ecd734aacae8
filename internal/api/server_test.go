package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"resource_hub/internal/domain"
	"resource_hub/internal/render"
	"resource_hub/internal/service"
)

const testRefreshToken = "s3cret-token"

var testNow = time.Date(2025, 10, 16, 12, 0, 0, 0, time.UTC)

type staticContent struct {
	snapshot *service.Snapshot
}

func (s *staticContent) Snapshot() *service.Snapshot {
	return s.snapshot
}

type mockSender struct {
	mock.Mock
	disabled bool
}

func (m *mockSender) Enabled() bool {
	return !m.disabled
}

func (m *mockSender) Send(ctx context.Context, origin string, n domain.Notification) (*domain.NotificationResult, error) {
	args := m.Called(origin, n)
	result, _ := args.Get(0).(*domain.NotificationResult)
	return result, args.Error(1)
}

type mockHistory struct {
	mock.Mock
}

func (m *mockHistory) Recent(ctx context.Context, limit int) ([]domain.NotificationLogEntry, error) {
	args := m.Called(limit)
	entries, _ := args.Get(0).([]domain.NotificationLogEntry)
	return entries, args.Error(1)
}

type mockRefresher struct {
	mock.Mock
	ctxErr error
}

func (m *mockRefresher) Refresh(ctx context.Context) (*domain.RefreshStats, error) {
	m.ctxErr = ctx.Err()
	args := m.Called()
	stats, _ := args.Get(0).(*domain.RefreshStats)
	return stats, args.Error(1)
}

func testSnapshot() *service.Snapshot {
	return &service.Snapshot{
		News: []domain.NewsItem{
			{ID: "exam", Title: "Mid-Term Schedule", Date: testNow.Add(-time.Hour), Category: domain.CategoryExam, Body: "Bring your **ID**."},
			{ID: "holiday", Title: "Holiday", Date: testNow.Add(-2 * time.Hour), Category: domain.CategoryGeneral},
		},
		Deadlines: []domain.DeadlineItem{
			{ID: "quiz", Title: "Quiz 2", Subject: domain.SubjectCalculus, DueDate: testNow.Add(5 * time.Hour), Priority: domain.PriorityHigh},
			{ID: "lab", Title: "Lab", Subject: domain.SubjectICT, DueDate: testNow.Add(-time.Hour), Priority: domain.PriorityLow},
		},
		LoadedAt: testNow,
	}
}

type testServer struct {
	*Server
	sender    *mockSender
	history   *mockHistory
	refresher *mockRefresher
}

func newTestServer(opts func(*Options)) *testServer {
	ts := &testServer{
		sender:    &mockSender{},
		history:   &mockHistory{},
		refresher: &mockRefresher{},
	}

	o := &Options{
		Site: render.Site{
			Title: "DUET Resource Hub",
			Subjects: []render.SubjectLink{
				{Name: "Calculus", DriveURL: "https://drive.example.com/calc"},
				{Name: "Applied Physics", DriveURL: "https://drive.example.com/physics"},
				{Name: "Islamiat"},
			},
		},
		Content:      &staticContent{snapshot: testSnapshot()},
		Refresher:    ts.refresher,
		RefreshToken: testRefreshToken,
		Sender:       ts.sender,
		History:      ts.history,
		Relays: []Relay{
			{Name: "vercel", Path: "/api/send-notification", DefaultURL: "https://25fcyber.vercel.app"},
			{Name: "netlify", Path: "/.netlify/functions/send-notification", DefaultURL: "https://25fcyber.netlify.app"},
		},
		TickInterval: 10 * time.Millisecond,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if opts != nil {
		opts(o)
	}

	ts.Server = NewServer(o)
	ts.Server.now = func() time.Time { return testNow }
	return ts
}

func (ts *testServer) do(method, target, body string) *httptest.ResponseRecorder {
	return ts.serve(newRequest(method, target, body))
}

func newRequest(method, target, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func (ts *testServer) serve(req *http.Request) *httptest.ResponseRecorder {
	res := httptest.NewRecorder()
	ts.ServeHTTP(res, req)
	return res
}

func assertStatus(t *testing.T, res *httptest.ResponseRecorder, code int) {
	t.Helper()
	if res.Code != code {
		t.Fatalf("status = %d, want %d; body: %s", res.Code, code, res.Body.String())
	}
}

var _ http.Handler = (*Server)(nil)
