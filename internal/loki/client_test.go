package loki

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPushEventJSON_ExtractsLabels(t *testing.T) {
	var got PushRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/loki/api/v1/push" {
			t.Errorf("path = %q", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("unmarshal push body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	raw := []byte(`{"kind":"enter","tokens":{"user":"alice","fence":"home"},"createdAt":"2026-08-29T10:00:00Z"}`)
	if err := PushEventJSON(context.Background(), srv.URL, raw); err != nil {
		t.Fatalf("PushEventJSON: %v", err)
	}

	if len(got.Streams) != 1 {
		t.Fatalf("streams = %d, want 1", len(got.Streams))
	}
	labels := got.Streams[0].Stream
	if labels["job"] != "geofence" || labels["event_kind"] != "enter" || labels["user"] != "alice" || labels["fence"] != "home" {
		t.Errorf("labels = %v", labels)
	}
}

func TestPushEvent_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := PushEventJSON(context.Background(), srv.URL, []byte(`{}`))
	if err == nil {
		t.Fatal("PushEventJSON should fail on a non-2xx response")
	}
}

func TestPushEvent_EmptyURL(t *testing.T) {
	if err := PushEventJSON(context.Background(), "", []byte(`{}`)); err == nil {
		t.Fatal("PushEventJSON should fail with an empty base URL")
	}
}
