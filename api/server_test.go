package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/segmentio/encoding/json"

	"github.com/qyinm/zodiactui/dto"
)

type fixedRand int

func (f fixedRand) IntN(n int) int { return int(f) % n }

func newTestServer(t *testing.T, path string, opts ...Option) http.Handler {
	t.Helper()
	data, err := NewDataset(path)
	if err != nil {
		t.Fatalf("NewDataset(%q): %v", path, err)
	}
	return NewServer(data, opts...).Handler()
}

func get(t *testing.T, h http.Handler, path string, out any) int {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	if ct := rec.Header().Get("Content-Type"); rec.Code != http.StatusMethodNotAllowed && ct != "application/json" {
		t.Fatalf("%s: unexpected content type %q", path, ct)
	}
	if out != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("%s: decode body %q: %v", path, rec.Body.String(), err)
		}
	}
	return rec.Code
}

func TestListZodiacs(t *testing.T) {
	h := newTestServer(t, "")

	var env dto.Envelope[[]dto.Entry]
	if code := get(t, h, "/api/zodiacs", &env); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if !env.Success || env.Count == nil || *env.Count != 12 || len(env.Data) != 12 {
		t.Fatalf("unexpected envelope: success=%v count=%v len=%d", env.Success, env.Count, len(env.Data))
	}
	if env.Data[0].Name != "Aries" || env.Data[11].Name != "Pisces" {
		t.Fatalf("dataset order not preserved: first=%q last=%q", env.Data[0].Name, env.Data[11].Name)
	}
}

func TestGetZodiacByName(t *testing.T) {
	h := newTestServer(t, "")

	tests := []struct {
		path     string
		wantCode int
		wantName string
	}{
		{"/api/zodiacs/leo", http.StatusOK, "Leo"},
		{"/api/zodiacs/SCORPIO", http.StatusOK, "Scorpio"},
		{"/api/zodiacs/ophiuchus", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var env dto.Envelope[dto.Entry]
			code := get(t, h, tt.path, &env)
			if code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, code)
			}
			if tt.wantCode == http.StatusNotFound {
				if env.Success || env.Error != `Zodiac sign "ophiuchus" not found` {
					t.Fatalf("unexpected failure envelope: %+v", env)
				}
				return
			}
			if env.Data.Name != tt.wantName {
				t.Fatalf("expected %q, got %q", tt.wantName, env.Data.Name)
			}
		})
	}
}

func TestRandomZodiac(t *testing.T) {
	h := newTestServer(t, "", WithRandom(fixedRand(4)))

	var env dto.Envelope[dto.Entry]
	if code := get(t, h, "/api/zodiacs/random", &env); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if env.Data.Name != "Leo" {
		t.Fatalf("expected entry at index 4 (Leo), got %q", env.Data.Name)
	}
}

func TestRandomZodiacEmptyDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}
	h := newTestServer(t, path)

	var env dto.Envelope[any]
	if code := get(t, h, "/api/zodiacs/random", &env); code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if env.Success || env.Error == "" {
		t.Fatalf("unexpected envelope: %+v", env)
	}

	var elements dto.Envelope[[]string]
	get(t, h, "/api/elements", &elements)
	if elements.Data == nil || len(elements.Data) != 0 {
		t.Fatalf("expected empty element list, got %v", elements.Data)
	}
}

func TestElementsSorted(t *testing.T) {
	h := newTestServer(t, "")

	var env dto.Envelope[[]string]
	if code := get(t, h, "/api/elements", &env); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if diff := cmp.Diff([]string{"Air", "Earth", "Fire", "Water"}, env.Data); diff != "" {
		t.Fatalf("elements mismatch (-want +got):\n%s", diff)
	}
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, "")

	var health dto.Health
	if code := get(t, h, "/api/health", &health); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if health.Status != "ok" || health.Message == "" {
		t.Fatalf("unexpected health body: %+v", health)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestServer(t, "")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/zodiacs", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
