package apify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/sanishr85/paysontech-upwork-tracker-backend/internal/core"
)

type fakeActor struct {
	submits int
	polls   int
	fetches int

	// status returns the run status to report for the given poll attempt.
	status func(attempt int) string

	submitCode int
}

func (f *fakeActor) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && strings.Contains(r.URL.Path, "/acts/"):
			f.submits++
			if f.submitCode != 0 {
				w.WriteHeader(f.submitCode)
				return
			}
			fmt.Fprint(w, `{"data":{"id":"run-1","status":"READY"}}`)
		case strings.Contains(r.URL.Path, "/actor-runs/"):
			f.polls++
			fmt.Fprintf(w, `{"data":{"id":"run-1","status":%q,"defaultDatasetId":"ds-1"}}`, f.status(f.polls))
		case strings.Contains(r.URL.Path, "/datasets/"):
			f.fetches++
			fmt.Fprint(w, `[{"title":"Build a scraper","skills":["python"],"budgetType":"hourly","budgetMax":45,"client":{"paymentVerified":true}}]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func newTestClient(t *testing.T, actor *fakeActor) (*Client, func()) {
	t.Helper()
	srv := httptest.NewServer(actor.handler())
	client := NewClient(srv.URL, "test-token", "acme~scraper", 2*time.Second, 30, zap.NewNop())
	client.sleep = func(time.Duration) {}
	return client, srv.Close
}

func TestRunSearchSucceedsFirstPoll(t *testing.T) {
	actor := &fakeActor{status: func(int) string { return "SUCCEEDED" }}
	client, done := newTestClient(t, actor)
	defer done()

	jobs, err := client.RunSearch(context.Background(), core.SearchInput{Keyword: "python", Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 posting, got %d", len(jobs))
	}
	if jobs[0].Title != "Build a scraper" {
		t.Fatalf("unexpected posting: %+v", jobs[0])
	}
	if !jobs[0].Client.PaymentVerified {
		t.Fatal("expected client info to decode")
	}

	if actor.submits != 1 || actor.polls != 1 || actor.fetches != 1 {
		t.Fatalf("expected 1 submit, 1 poll, 1 fetch; got %d/%d/%d",
			actor.submits, actor.polls, actor.fetches)
	}
}

func TestRunSearchTimesOutAfterPollLimit(t *testing.T) {
	actor := &fakeActor{status: func(int) string { return "RUNNING" }}
	client, done := newTestClient(t, actor)
	defer done()

	_, err := client.RunSearch(context.Background(), core.SearchInput{Keyword: "python"})
	if !errors.Is(err, core.ErrPollTimeout) {
		t.Fatalf("expected poll timeout, got %v", err)
	}
	if actor.polls != 30 {
		t.Fatalf("expected exactly 30 status calls, got %d", actor.polls)
	}
	if actor.fetches != 0 {
		t.Fatal("expected no dataset fetch on timeout")
	}
}

func TestRunSearchFailsFastOnFailedRun(t *testing.T) {
	actor := &fakeActor{status: func(int) string { return "FAILED" }}
	client, done := newTestClient(t, actor)
	defer done()

	_, err := client.RunSearch(context.Background(), core.SearchInput{Keyword: "python"})

	var runFailed *core.RunFailedError
	if !errors.As(err, &runFailed) {
		t.Fatalf("expected RunFailedError, got %v", err)
	}
	if runFailed.Status != core.JobStatusFailed {
		t.Fatalf("unexpected status: %s", runFailed.Status)
	}
	if actor.polls != 1 {
		t.Fatalf("expected exactly 1 status call, got %d", actor.polls)
	}
}

func TestRunSearchAbortedRun(t *testing.T) {
	actor := &fakeActor{status: func(int) string { return "ABORTED" }}
	client, done := newTestClient(t, actor)
	defer done()

	_, err := client.RunSearch(context.Background(), core.SearchInput{Keyword: "python"})

	var runFailed *core.RunFailedError
	if !errors.As(err, &runFailed) {
		t.Fatalf("expected RunFailedError, got %v", err)
	}
	if runFailed.Status != core.JobStatusAborted {
		t.Fatalf("unexpected status: %s", runFailed.Status)
	}
}

func TestRunSearchEventuallySucceeds(t *testing.T) {
	actor := &fakeActor{status: func(attempt int) string {
		if attempt < 3 {
			return "RUNNING"
		}
		return "SUCCEEDED"
	}}
	client, done := newTestClient(t, actor)
	defer done()

	jobs, err := client.RunSearch(context.Background(), core.SearchInput{Keyword: "python"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 posting, got %d", len(jobs))
	}
	if actor.polls != 3 {
		t.Fatalf("expected 3 status calls, got %d", actor.polls)
	}
}

func TestRunSearchUpstreamErrorOnSubmit(t *testing.T) {
	actor := &fakeActor{submitCode: http.StatusInternalServerError}
	client, done := newTestClient(t, actor)
	defer done()

	_, err := client.RunSearch(context.Background(), core.SearchInput{Keyword: "python"})

	var upstream *core.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.StatusCode != http.StatusInternalServerError {
		t.Fatalf("unexpected status code: %d", upstream.StatusCode)
	}
	if actor.polls != 0 {
		t.Fatal("expected no polling after failed submission")
	}
}

func TestRunSearchMissingToken(t *testing.T) {
	client := NewClient("http://localhost:0", "", "acme~scraper", time.Second, 30, zap.NewNop())

	_, err := client.RunSearch(context.Background(), core.SearchInput{Keyword: "python"})
	if !errors.Is(err, core.ErrMissingCredential) {
		t.Fatalf("expected missing credential error, got %v", err)
	}
}
