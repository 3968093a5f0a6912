package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/justestif/retailtunes/internal/dashboard"
)

func newTestStore(ttl time.Duration, sched *manualScheduler) (*SessionStore, *time.Time) {
	now := time.Date(2024, 12, 14, 14, 30, 0, 0, time.UTC)
	store := NewSessionStore(ttl, func(string) *dashboard.Dashboard {
		return dashboard.New(dashboard.WithAfterFunc(sched.AfterFunc))
	})
	store.now = func() time.Time { return now }
	return store, &now
}

func TestSessionStoreCreateGet(t *testing.T) {
	store, _ := newTestStore(time.Hour, &manualScheduler{})
	defer store.Close()

	s, err := store.Create()
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(s.ID) != 64 {
		t.Errorf("ID length = %d, want 64", len(s.ID))
	}
	if s.Dashboard == nil {
		t.Fatal("session has no dashboard")
	}
	if got := store.Get(s.ID); got != s {
		t.Error("Get() did not return the created session")
	}
	if store.Get("missing") != nil {
		t.Error("Get() returned a session for an unknown id")
	}
}

func TestSessionStoreExpiry(t *testing.T) {
	sched := &manualScheduler{}
	store, now := newTestStore(time.Hour, sched)
	defer store.Close()

	s, _ := store.Create()
	s.Dashboard.RefreshRecommendations()

	*now = now.Add(2 * time.Hour)
	if store.Get(s.ID) != nil {
		t.Fatal("expired session still returned")
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d, want 0", store.Len())
	}
	if s.Dashboard.Pending() != 0 {
		t.Error("expired session left a refresh pending")
	}
}

func TestSessionStoreDeleteExpired(t *testing.T) {
	store, now := newTestStore(time.Hour, &manualScheduler{})
	defer store.Close()

	stale, _ := store.Create()
	*now = now.Add(90 * time.Minute)
	fresh, _ := store.Create()

	if n := store.DeleteExpired(); n != 1 {
		t.Errorf("DeleteExpired() = %d, want 1", n)
	}
	if store.Get(stale.ID) != nil {
		t.Error("stale session survived")
	}
	if store.Get(fresh.ID) == nil {
		t.Error("fresh session removed")
	}
}

func TestSessionStoreCloseCancelsRefresh(t *testing.T) {
	sched := &manualScheduler{}
	store, _ := newTestStore(time.Hour, sched)

	s, _ := store.Create()
	s.Dashboard.RefreshRecommendations()
	store.Close()

	sched.fire()
	if !s.Dashboard.State().IsAnalyzing {
		t.Error("closed dashboard should keep its last state")
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d after Close, want 0", store.Len())
	}
}

func TestSessionCookies(t *testing.T) {
	store, _ := newTestStore(time.Hour, &manualScheduler{})
	defer store.Close()

	s, _ := store.Create()

	rec := httptest.NewRecorder()
	store.SetCookie(rec, s)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}
	ck := cookies[0]
	if ck.Name != sessionCookieName || ck.Value != s.ID || !ck.HttpOnly || ck.MaxAge != 3600 {
		t.Errorf("unexpected cookie %+v", ck)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(ck)
	if store.GetFromRequest(req) != s {
		t.Error("GetFromRequest() did not find the session")
	}

	rec = httptest.NewRecorder()
	store.ClearCookie(rec)
	if got := rec.Result().Cookies()[0].MaxAge; got != -1 {
		t.Errorf("cleared cookie MaxAge = %d, want -1", got)
	}
}
