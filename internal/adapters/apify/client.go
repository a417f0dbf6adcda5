// Package apify implements the remote job runner against the Apify actor
// API: submit an actor run, poll it to a terminal state, fetch the result
// dataset. The upstream is an asynchronous batch job host with no push
// notification, so fixed-cadence polling with a hard attempt ceiling is
// the only way to guarantee a terminal outcome.
package apify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/sanishr85/paysontech-upwork-tracker-backend/internal/core"
)

const DefaultBaseURL = "https://api.apify.com"

// Client runs searches through a scraping actor. It keeps no state between
// invocations.
type Client struct {
	httpClient   *http.Client
	logger       *zap.Logger
	baseURL      string
	token        string
	actorID      string
	pollInterval time.Duration
	maxAttempts  int

	// sleep is replaceable so tests can run the poll loop without real
	// time elapsing.
	sleep func(time.Duration)
}

// NewClient creates a new actor client. An empty token is allowed here;
// it degrades every call to a configuration failure.
func NewClient(
	baseURL string,
	token string,
	actorID string,
	pollInterval time.Duration,
	maxAttempts int,
	logger *zap.Logger,
) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:       logger,
		baseURL:      baseURL,
		token:        token,
		actorID:      actorID,
		pollInterval: pollInterval,
		maxAttempts:  maxAttempts,
		sleep:        time.Sleep,
	}
}

type runData struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	DefaultDatasetID string `json:"defaultDatasetId"`
}

type runEnvelope struct {
	Data runData `json:"data"`
}

// RunSearch submits a retrieval job, polls it to completion and fetches
// the resulting postings. Each invocation creates a fresh run; there is no
// retry at any stage.
func (c *Client) RunSearch(ctx context.Context, input core.SearchInput) ([]core.Posting, error) {
	if c.token == "" {
		return nil, fmt.Errorf("apify: %w", core.ErrMissingCredential)
	}

	run, err := c.startRun(ctx, input)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("actor run submitted",
		zap.String("run_id", run.ID),
		zap.String("actor_id", c.actorID))

	if err := c.pollRun(ctx, run); err != nil {
		return nil, err
	}

	return c.fetchDataset(ctx, run.DatasetID)
}

func (c *Client) startRun(ctx context.Context, input core.SearchInput) (*core.RemoteJob, error) {
	body, err := json.Marshal(actorInput(input))
	if err != nil {
		return nil, fmt.Errorf("encode actor input: %w", err)
	}

	url := fmt.Sprintf("%s/v2/acts/%s/runs?token=%s", c.baseURL, c.actorID, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var envelope runEnvelope
	if err := c.do(req, "run submission", &envelope); err != nil {
		return nil, err
	}

	return &core.RemoteJob{ID: envelope.Data.ID, Status: core.JobStatusPending}, nil
}

// pollRun drives the run to a terminal state, mutating it in place. Each
// attempt sleeps the poll interval before issuing a status query.
func (c *Client) pollRun(ctx context.Context, run *core.RemoteJob) error {
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		c.sleep(c.pollInterval)

		url := fmt.Sprintf("%s/v2/actor-runs/%s?token=%s", c.baseURL, run.ID, c.token)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}

		var envelope runEnvelope
		if err := c.do(req, "run status", &envelope); err != nil {
			return err
		}

		run.Status = statusFromAPI(envelope.Data.Status)
		run.DatasetID = envelope.Data.DefaultDatasetID

		c.logger.Debug("actor run polled",
			zap.String("run_id", run.ID),
			zap.Int("attempt", attempt),
			zap.String("status", string(run.Status)))

		switch run.Status {
		case core.JobStatusSucceeded:
			return nil
		case core.JobStatusFailed, core.JobStatusAborted, core.JobStatusTimedOut:
			return &core.RunFailedError{RunID: run.ID, Status: run.Status}
		}
	}

	return fmt.Errorf("run %s: %w", run.ID, core.ErrPollTimeout)
}

func (c *Client) fetchDataset(ctx context.Context, datasetID string) ([]core.Posting, error) {
	url := fmt.Sprintf("%s/v2/datasets/%s/items?token=%s&format=json", c.baseURL, datasetID, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	var items []map[string]any
	if err := c.do(req, "dataset read", &items); err != nil {
		return nil, err
	}

	return decodePostings(items)
}

func (c *Client) do(req *http.Request, op string, target any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &core.UpstreamError{Op: op, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

// actorInput builds the parameter object the scraping actor expects.
func actorInput(input core.SearchInput) map[string]any {
	params := map[string]any{
		"maxItems": input.Limit,
	}
	if input.Keyword != "" {
		params["searchTerm"] = input.Keyword
	}
	if input.Category != "" {
		params["category"] = input.Category
	}
	return params
}

// decodePostings maps loosely typed dataset items onto postings, tolerating
// extra fields the actor may emit.
func decodePostings(items []map[string]any) ([]core.Posting, error) {
	var postings []core.Posting
	cfg := &mapstructure.DecoderConfig{
		Result:           &postings,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(items); err != nil {
		return nil, fmt.Errorf("decode dataset items: %w", err)
	}
	return postings, nil
}

func statusFromAPI(status string) core.JobStatus {
	switch status {
	case "SUCCEEDED":
		return core.JobStatusSucceeded
	case "FAILED":
		return core.JobStatusFailed
	case "ABORTED", "ABORTING":
		return core.JobStatusAborted
	case "TIMED-OUT", "TIMED_OUT", "TIMING-OUT":
		return core.JobStatusTimedOut
	default:
		// READY and RUNNING are both pre-terminal.
		return core.JobStatusPending
	}
}
