package pushover

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"meditrack/internal/platform/logger"
	"meditrack/internal/ports/notify"
)

type capture struct {
	mu    sync.Mutex
	forms []map[string]string
}

func (c *capture) handler(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	form := map[string]string{}
	for k := range r.PostForm {
		form[k] = r.PostForm.Get(k)
	}
	c.mu.Lock()
	c.forms = append(c.forms, form)
	c.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func (c *capture) wait(t *testing.T, n int) []map[string]string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		c.mu.Lock()
		got := len(c.forms)
		c.mu.Unlock()
		if got >= n {
			c.mu.Lock()
			defer c.mu.Unlock()
			return append([]map[string]string(nil), c.forms...)
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d pushes, got %d", n, got)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func newTestSink(t *testing.T) (*Sink, *capture) {
	t.Helper()
	rec := &capture{}
	srv := httptest.NewServer(http.HandlerFunc(rec.handler))
	t.Cleanup(srv.Close)

	s := New("tok", "usr", logger.Nop{})
	s.apiURL = srv.URL
	return s, rec
}

func TestAlarmActivated_SendsPush(t *testing.T) {
	s, rec := newTestSink(t)

	s.AlarmActivated(notify.Intake{Medicine: "Amoxicilina", Dose: "500mg", Time: "08:00"}, 1, 180)

	forms := rec.wait(t, 1)
	if forms[0]["token"] != "tok" || forms[0]["user"] != "usr" {
		t.Fatalf("credentials = %v", forms[0])
	}
	if forms[0]["title"] != "Medication due: Amoxicilina" {
		t.Fatalf("title = %q", forms[0]["title"])
	}
}

func TestAlarmResolved_OnlyMissedPushes(t *testing.T) {
	s, rec := newTestSink(t)

	item := notify.Intake{Medicine: "Ibuprofeno", Dose: "400mg", Date: "2024-01-01", Time: "09:00"}
	s.AlarmResolved(item, notify.OutcomeTaken)
	s.AlarmResolved(item, notify.OutcomeSnoozed)
	s.AlarmResolved(item, notify.OutcomeMissed)

	forms := rec.wait(t, 1)
	if len(forms) != 1 {
		t.Fatalf("pushes = %d, want 1", len(forms))
	}
	if forms[0]["title"] != "Missed dose: Ibuprofeno" {
		t.Fatalf("title = %q", forms[0]["title"])
	}
}

func TestNew_MissingCredentialsReturnsNil(t *testing.T) {
	if New("", "usr", nil) != nil || New("tok", "", nil) != nil {
		t.Fatal("expected nil sink without credentials")
	}
}
