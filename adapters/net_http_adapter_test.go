package adapters

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

type testRecord struct {
	EventType string `json:"event_type"`
	SessionID string `json:"session_id"`
}

func TestNetHTTPAdapter_SendsOneJSONRecord(t *testing.T) {
	var gotMethod, gotContentType, gotAuth string
	var gotBody []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	adapter := NewNetHTTPAdapter()
	resp, err := adapter.Send(server.URL, testRecord{EventType: "click", SessionID: "sess_1"}, map[string]string{
		"Authorization": "Bearer tok",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.OK || resp.Status != 200 {
		t.Fatalf("expected 200 OK, got %+v", resp)
	}
	if gotMethod != http.MethodPost {
		t.Fatalf("expected POST, got %s", gotMethod)
	}
	if gotContentType != "application/json" {
		t.Fatalf("expected JSON content type, got %s", gotContentType)
	}
	if gotAuth != "Bearer tok" {
		t.Fatalf("expected auth header, got %q", gotAuth)
	}

	var record testRecord
	if err := json.Unmarshal(gotBody, &record); err != nil {
		t.Fatalf("body is not valid JSON: %v", err)
	}
	if record.EventType != "click" || record.SessionID != "sess_1" {
		t.Fatalf("unexpected record: %+v", record)
	}
}

func TestNetHTTPAdapter_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	adapter := NewNetHTTPAdapter()
	resp, err := adapter.Send(server.URL, testRecord{EventType: "click"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.OK || resp.Status != 500 {
		t.Fatalf("expected failed response, got %+v", resp)
	}
}

func TestNetHTTPAdapter_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	adapter := NewNetHTTPAdapter()
	if _, err := adapter.Send(server.URL, testRecord{}, nil); err == nil {
		t.Fatal("expected a network error")
	}
}
