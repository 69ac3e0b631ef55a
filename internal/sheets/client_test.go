package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	sheetsv4 "google.golang.org/api/sheets/v4"

	"trivia-quiz-service/internal/domain"
)

type fakeSheet struct {
	mu       sync.Mutex
	values   [][]any
	appended [][]any
	status   int
}

func (f *fakeSheet) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		if f.status != 0 {
			http.Error(w, "boom", f.status)
			return
		}
		switch {
		case r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/values/"):
			_ = json.NewEncoder(w).Encode(map[string]any{"range": "Sheet1!A1:G3", "values": f.values})
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":append"):
			if got := r.URL.Query().Get("valueInputOption"); got != "RAW" {
				t.Errorf("expected RAW value input, got %q", got)
			}
			var body sheetsv4.ValueRange
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode append body: %v", err)
			}
			f.appended = append(f.appended, body.Values...)
			_, _ = w.Write([]byte(`{}`))
		case r.Method == http.MethodGet && r.URL.Path == "/v4/spreadsheets/sheet-123":
			if got := r.URL.Query().Get("fields"); got != "spreadsheetId" {
				t.Errorf("expected a fields mask on ping, got %q", got)
			}
			_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-123"}`))
		default:
			http.NotFound(w, r)
		}
	})
}

func newFakeClient(t *testing.T, f *fakeSheet) *Client {
	t.Helper()
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)
	client, err := NewClient(context.Background(), srv.Client(), "sheet-123", WithBaseURL(srv.URL+"/"))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestLoaderReadsSheet(t *testing.T) {
	f := &fakeSheet{values: [][]any{
		{"Question", "A", "B", "C", "D", "Answer", "Difficulty"},
		{"Capital of Japan?", "Seoul", "Tokyo", "Beijing", "Osaka", 1, "medium"},
		{"Fastest land animal?", "Cheetah", "Lion", "Horse", "Hare", "Cheetah", 20},
	}}
	loader := NewLoader(newFakeClient(t, f), "Sheet1!A:G")

	set, err := loader.LoadQuestions(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if set.Source != domain.SourceSheets {
		t.Fatalf("expected google-sheets source, got %s", set.Source)
	}
	if len(set.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(set.Questions))
	}
	if q := set.Questions[1]; q.CorrectIndex != 0 || q.Score != 20 {
		t.Fatalf("unexpected second question: %+v", q)
	}
}

func TestLoaderEmptySheet(t *testing.T) {
	f := &fakeSheet{values: [][]any{{"Question", "A", "B", "C", "D", "Answer"}}}
	loader := NewLoader(newFakeClient(t, f), "Sheet1!A:G")

	if _, err := loader.LoadQuestions(context.Background()); !errors.Is(err, domain.ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}

func TestClientSurfacesHTTPErrors(t *testing.T) {
	f := &fakeSheet{status: http.StatusForbidden}
	client := newFakeClient(t, f)

	if _, err := client.Values(context.Background(), "Sheet1!A:G"); err == nil || !strings.Contains(err.Error(), "403") {
		t.Fatalf("expected status error, got %v", err)
	}
	if err := client.Ping(context.Background()); err == nil {
		t.Fatalf("expected ping to fail")
	}
}

func TestClientPing(t *testing.T) {
	client := newFakeClient(t, &fakeSheet{})
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestAuditRecorderAppendsRow(t *testing.T) {
	f := &fakeSheet{}
	recorder := NewAuditRecorder(newFakeClient(t, f), "UserData!A:E")

	at := time.Date(2024, 11, 22, 10, 30, 0, 0, time.UTC)
	err := recorder.RecordLogin(context.Background(), domain.LoginRecord{
		Identity:   domain.Identity{ID: "42", Provider: "github", Name: "Ada", Email: "ada@example.com"},
		LoggedInAt: at,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.appended) != 1 {
		t.Fatalf("expected 1 appended row, got %d", len(f.appended))
	}
	row := f.appended[0]
	want := []string{"2024-11-22T10:30:00Z", "ada@example.com", "Ada", "github", "42"}
	if len(row) != len(want) {
		t.Fatalf("unexpected row: %v", row)
	}
	for i := range want {
		if row[i] != want[i] {
			t.Fatalf("column %d: expected %q, got %v", i, want[i], row[i])
		}
	}
}
