package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ccollicutt/bifinder/pkg/analyzer"
	"github.com/ccollicutt/bifinder/pkg/output"
	"github.com/ccollicutt/bifinder/pkg/parser"
)

func newTestReport() *output.Report {
	return &output.Report{
		Scorer: analyzer.ScorerTypeWeighted,
		Summary: output.Summary{
			LinesRead:     100,
			EventsMatched: 2,
			EventsScored:  1,
			EventsSkipped: 1,
		},
		Results: []*analyzer.EventResult{
			{
				Event:      &parser.Event{ID: "(evt-1,", P: 1, P2: 2, RI: 3},
				Matches:    &analyzer.PairMatches{},
				Bottleneck: 3,
				Score:      4,
			},
		},
		Metadata: output.Metadata{
			RunID:      "run-1234",
			Source:     "monitor.log",
			AnalyzedAt: time.Now(),
			Duration:   time.Second,
		},
	}
}

func TestClient_Send_Success(t *testing.T) {
	var receivedBody []byte
	var receivedContentType, receivedEvent, receivedRun, receivedAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedContentType = r.Header.Get("Content-Type")
		receivedEvent = r.Header.Get("X-Bifinder-Event")
		receivedRun = r.Header.Get("X-Bifinder-Run")
		receivedAuth = r.Header.Get("Authorization")
		receivedBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	resp := NewClient().Send(context.Background(), newTestReport(), SendOptions{URL: server.URL})

	if !resp.Success() {
		t.Fatalf("expected success, got error: %v", resp.Error)
	}
	if resp.Body != `{"status":"ok"}` {
		t.Errorf("unexpected body: %s", resp.Body)
	}
	if receivedContentType != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", receivedContentType)
	}
	if receivedEvent != EventReport {
		t.Errorf("expected X-Bifinder-Event %s, got %q", EventReport, receivedEvent)
	}
	if receivedRun != "run-1234" {
		t.Errorf("expected X-Bifinder-Run run-1234, got %q", receivedRun)
	}
	if receivedAuth != "" {
		t.Errorf("expected no Authorization header, got %q", receivedAuth)
	}

	var decoded Payload
	if err := json.Unmarshal(receivedBody, &decoded); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	if decoded.Event != EventReport || decoded.RunID != "run-1234" || decoded.Source != "monitor.log" {
		t.Errorf("payload envelope = %q %q %q", decoded.Event, decoded.RunID, decoded.Source)
	}
	if decoded.Summary.EventsScored != 1 {
		t.Errorf("payload EventsScored = %d, want 1", decoded.Summary.EventsScored)
	}
	if len(decoded.Bottlenecks) != 1 || decoded.Bottlenecks[0].TopEvent != "(evt-1," {
		t.Errorf("payload bottlenecks = %+v", decoded.Bottlenecks)
	}
	if decoded.Report == nil || len(decoded.Report.Results) != 1 {
		t.Errorf("payload report = %+v", decoded.Report)
	}
}

func TestClient_Send_WithBearerToken(t *testing.T) {
	var receivedAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	resp := NewClient().Send(context.Background(), newTestReport(), SendOptions{
		URL:   server.URL,
		Token: "secret",
	})

	if !resp.Success() {
		t.Errorf("expected success, got error: %v", resp.Error)
	}
	if receivedAuth != "Bearer secret" {
		t.Errorf("expected Authorization 'Bearer secret', got %q", receivedAuth)
	}
}

func TestClient_Send_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer server.Close()

	resp := NewClient().Send(context.Background(), newTestReport(), SendOptions{URL: server.URL})

	if resp.Success() {
		t.Error("expected failure for 500 response")
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", resp.StatusCode)
	}
	if resp.Body != "boom" {
		t.Errorf("expected body boom, got %q", resp.Body)
	}
}

func TestClient_Send_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	resp := NewClient().Send(context.Background(), newTestReport(), SendOptions{
		URL:     server.URL,
		Timeout: 50 * time.Millisecond,
	})

	if resp.Success() {
		t.Error("expected timeout failure")
	}
	if resp.Error == nil {
		t.Error("expected error to be set")
	}
}

func TestClient_Send_InvalidURL(t *testing.T) {
	resp := NewClient().Send(context.Background(), newTestReport(), SendOptions{URL: "://bad"})

	if resp.Success() || resp.Error == nil {
		t.Error("expected error for invalid URL")
	}
}

func TestClient_Send_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	resp := NewClient().Send(context.Background(), newTestReport(), SendOptions{
		URL:     url,
		Timeout: time.Second,
	})

	if resp.Success() || resp.Error == nil {
		t.Error("expected error for refused connection")
	}
}

func TestResponse_Success(t *testing.T) {
	tests := []struct {
		name string
		resp Response
		want bool
	}{
		{"200", Response{StatusCode: 200}, true},
		{"204", Response{StatusCode: 204}, true},
		{"301", Response{StatusCode: 301}, false},
		{"404", Response{StatusCode: 404}, false},
		{"200 with error", Response{StatusCode: 200, Error: io.ErrUnexpectedEOF}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.resp.Success(); got != tt.want {
				t.Errorf("Success() = %v, want %v", got, tt.want)
			}
		})
	}
}
