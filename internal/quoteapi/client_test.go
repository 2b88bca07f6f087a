package quoteapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/quipe/internal/model"
)

func TestGenerate_SendsPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method=%s", r.Method)
		}
		if r.URL.Path != generateEndpoint {
			t.Errorf("path=%s", r.URL.Path)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("content type=%q", got)
		}
		if ua := r.Header.Get("User-Agent"); !strings.HasPrefix(ua, "quipe/1.0") {
			t.Errorf("unexpected UA: %q", ua)
		}
		raw, _ := io.ReadAll(r.Body)
		var payload map[string]any
		if err := json.Unmarshal(raw, &payload); err != nil {
			t.Errorf("decode: %v", err)
		}
		if payload["category"] != "motivation" {
			t.Errorf("category=%v", payload["category"])
		}
		if payload["length"] != "medium" {
			t.Errorf("length=%v", payload["length"])
		}
		for _, key := range []string{"topic", "style"} {
			v, ok := payload[key]
			if !ok || v != nil {
				t.Errorf("expected %s to be null, got %v (present=%v)", key, v, ok)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"quote":"Keep going.","author":"Ayō","category":"motivation","timestamp":"2025-10-23T10:30:00Z"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/")
	resp, err := c.Generate(context.Background(), model.Preferences{Category: model.CategoryMotivation})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Quote != "Keep going." || resp.Author != "Ayō" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Timestamp != "2025-10-23T10:30:00Z" {
		t.Fatalf("unexpected timestamp %q", resp.Timestamp)
	}
}

func TestNewGenerateRequestNormalizesOptionalFields(t *testing.T) {
	req := NewGenerateRequest(model.Preferences{})
	if req.Category != "random" {
		t.Fatalf("expected random category, got %q", req.Category)
	}
	if req.Topic != nil || req.Style != nil {
		t.Fatalf("expected nil topic/style, got %v %v", req.Topic, req.Style)
	}

	req = NewGenerateRequest(model.Preferences{Category: model.CategoryLife, Topic: "courage", Style: "modern"})
	if req.Topic == nil || *req.Topic != "courage" {
		t.Fatalf("unexpected topic %v", req.Topic)
	}
	if req.Style == nil || *req.Style != "modern" {
		t.Fatalf("unexpected style %v", req.Style)
	}
}

func TestGenerate_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"detail":"Failed to generate quote: boom"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Generate(context.Background(), model.Preferences{Category: model.CategoryWisdom})
	if err == nil {
		t.Fatal("expected error")
	}
	var ae *APIError
	if !errors.As(err, &ae) {
		t.Fatalf("want APIError, got %T", err)
	}
	if ae.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status=%d", ae.StatusCode)
	}
	if ae.Message != "Failed to generate quote: boom" {
		t.Fatalf("message=%q", ae.Message)
	}
	if !IsUnavailable(err) {
		t.Fatalf("expected unavailable")
	}
}

func TestGenerate_PlainTextError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, "slow down")
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Generate(context.Background(), model.Preferences{})
	var ae *APIError
	if !errors.As(err, &ae) {
		t.Fatalf("want APIError, got %v", err)
	}
	if ae.Message != "slow down" {
		t.Fatalf("message=%q", ae.Message)
	}
	if IsUnavailable(err) {
		t.Fatalf("429 is not unavailable")
	}
}

func TestGenerate_MissingQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"author":"nobody"}`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Generate(context.Background(), model.Preferences{})
	if !errors.Is(err, ErrMissingQuote) {
		t.Fatalf("expected ErrMissingQuote, got %v", err)
	}
}

func TestGenerate_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html>oops</html>`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Generate(context.Background(), model.Preferences{})
	if err == nil || !strings.Contains(err.Error(), "decode quote") {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestRandomCategoriesHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method=%s", r.Method)
		}
		switch r.URL.Path {
		case randomEndpoint:
			_, _ = io.WriteString(w, `{"quote":"Anything.","category":"random"}`)
		case categoriesEndpoint:
			_, _ = io.WriteString(w, `["motivation","wisdom"]`)
		case healthEndpoint:
			_, _ = io.WriteString(w, `{"status":"healthy","version":"1.0.0","model":"gemini-1.5-flash"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	ctx := context.Background()
	q, err := c.Random(ctx)
	if err != nil {
		t.Fatalf("Random: %v", err)
	}
	if q.Quote != "Anything." || q.Author != "" {
		t.Fatalf("unexpected random quote: %+v", q)
	}
	cats, err := c.Categories(ctx)
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if len(cats) != 2 || cats[1] != "wisdom" {
		t.Fatalf("unexpected categories: %v", cats)
	}
	h, err := c.Health(ctx)
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if h.Status != "healthy" || h.Model != "gemini-1.5-flash" {
		t.Fatalf("unexpected health: %+v", h)
	}
}

func TestSanitizeBaseURL(t *testing.T) {
	if got := NewClient("").BaseURL(); got != DefaultBaseURL {
		t.Fatalf("expected default base url, got %q", got)
	}
	if got := NewClient(" https://example.com/api/ ").BaseURL(); got != "https://example.com/api" {
		t.Fatalf("unexpected base url %q", got)
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).Generate(context.Background(), model.Preferences{})
	if err == nil || !strings.Contains(err.Error(), "execute request") {
		t.Fatalf("expected transport error, got %v", err)
	}
}

type countingTransport struct {
	calls int
}

func (t *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	t.calls++
	return http.DefaultTransport.RoundTrip(r)
}

func TestWithTimeoutKeepsCustomTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"quote":"q","author":"a"}`))
	}))
	defer srv.Close()

	transport := &countingTransport{}
	custom := &http.Client{Transport: transport}
	c := NewClient(srv.URL, WithHTTPClient(custom), WithTimeout(2*time.Second))

	if c.http.Timeout != 2*time.Second {
		t.Fatalf("timeout=%v", c.http.Timeout)
	}
	if custom.Timeout != 0 {
		t.Fatalf("caller's client must not be mutated, timeout=%v", custom.Timeout)
	}
	if _, err := c.Random(context.Background()); err != nil {
		t.Fatalf("random: %v", err)
	}
	if transport.calls != 1 {
		t.Fatalf("expected custom transport to be used, calls=%d", transport.calls)
	}
}
