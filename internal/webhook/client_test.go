package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSendAddsSigningHeaders(t *testing.T) {
	var (
		gotSig string
		gotTS  string
		gotEvt string
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSig = r.Header.Get(HeaderSignature)
		gotTS = r.Header.Get(HeaderTimestamp)
		gotEvt = r.Header.Get(HeaderEvent)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(Config{
		SigningSecret:  "test-secret",
		Timeout:        2 * time.Second,
		MaxAttempts:    1,
		InitialBackoff: 10 * time.Millisecond,
		MaxBackoff:     20 * time.Millisecond,
	})

	err := client.Send(context.Background(), srv.URL, EventJobCompleted, map[string]any{"job_id": "job-1"})
	if err != nil {
		t.Fatalf("send returned error: %v", err)
	}

	if gotSig == "" {
		t.Fatal("expected signature header")
	}
	if gotTS == "" {
		t.Fatal("expected timestamp header")
	}
	if gotEvt != EventJobCompleted {
		t.Fatalf("expected event header %s, got %q", EventJobCompleted, gotEvt)
	}
}

func TestSendDeliversJobEventOutputs(t *testing.T) {
	var got JobEvent
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode event body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(Config{SigningSecret: "test-secret", MaxAttempts: 1})

	event := JobEvent{
		JobID:      "job-1",
		Status:     "succeeded",
		SourceType: "s3_presigned",
		ObjectKey:  "uploads/job-1/source",
		FinishedAt: time.Now().UTC(),
		Outputs: []StepOutput{
			{StepID: "hero", Format: "png", Path: "renders/job-1/hero.png", Bytes: 2048, Width: 2000, Height: 2000},
			{StepID: "social", Format: "jpeg", Path: "renders/job-1/social.jpeg", Bytes: 512, Width: 1001, Height: 563},
		},
	}
	if err := client.Send(context.Background(), srv.URL, EventJobCompleted, event); err != nil {
		t.Fatalf("send returned error: %v", err)
	}

	if got.JobID != "job-1" || got.Status != "succeeded" {
		t.Fatalf("event identity did not survive delivery: %+v", got)
	}
	if len(got.Outputs) != 2 {
		t.Fatalf("expected 2 outputs, got %d", len(got.Outputs))
	}
	if got.Outputs[1].StepID != "social" || got.Outputs[1].Width != 1001 {
		t.Fatalf("per-step output did not survive delivery: %+v", got.Outputs[1])
	}
	if got.Error != "" {
		t.Fatalf("completed event should carry no error, got %q", got.Error)
	}
}
