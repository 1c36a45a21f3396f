// Package ioncbi implements remote.Client with NCBI E-utilities.
package ioncbi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gnames/accmeta/pkg/accession"
	"github.com/gnames/accmeta/pkg/config"
	"github.com/gnames/accmeta/pkg/ratelimit"
	"github.com/gnames/accmeta/pkg/remote"
)

type ncbi struct {
	baseURL string
	apiKey  string
	email   string
	tool    string
	timeout time.Duration
	client  *http.Client
	limiter ratelimit.Limiter
}

// New creates an E-utilities client. All requests of the client share
// limiter. If limiter is nil, a token bucket with the NCBI request budget
// is created.
func New(cfg *config.Config, limiter ratelimit.Limiter) remote.Client {
	if limiter == nil {
		budget := cfg.NCBI.RequestBudget()
		limiter = ratelimit.NewTokenBucket(budget, 1)
	}
	return &ncbi{
		baseURL: strings.TrimRight(cfg.NCBI.BaseURL, "/"),
		apiKey:  cfg.NCBI.APIKey,
		email:   cfg.NCBI.Email,
		tool:    cfg.NCBI.Tool,
		timeout: cfg.Resolve.PerCallTimeout,
		client:  &http.Client{},
		limiter: limiter,
	}
}

func (n *ncbi) FetchPrimaryRecord(
	ctx context.Context,
	acc accession.Accession,
) (remote.Payload, error) {
	if acc.Source == accession.SequencingRun {
		return n.FetchRunSummary(ctx, acc.ID)
	}

	params := url.Values{}
	params.Set("db", "nuccore")
	params.Set("id", acc.ID)
	params.Set("rettype", "gb")
	params.Set("retmode", "text")

	body, err := n.get(ctx, "efetch", params)
	if err != nil {
		return nil, err
	}
	text := string(body)
	if !strings.Contains(text, "LOCUS") {
		return nil, remote.NotFound("efetch nuccore", acc.ID)
	}
	return remote.FlatRecord{Text: text}, nil
}

func (n *ncbi) FetchRunSummary(ctx context.Context, runID string) (remote.Payload, error) {
	params := url.Values{}
	params.Set("db", "sra")
	params.Set("id", runID)
	params.Set("rettype", "runinfo")
	params.Set("retmode", "text")

	body, err := n.get(ctx, "efetch", params)
	if err != nil {
		return nil, err
	}
	attrs, err := parseRunInfo(body, runID)
	if err != nil {
		return nil, err
	}
	if len(attrs) == 0 {
		return nil, remote.NotFound("efetch sra", runID)
	}
	return remote.AttributeList{Attrs: attrs}, nil
}

func (n *ncbi) FetchLinkedSample(
	ctx context.Context,
	acc accession.Accession,
) (string, error) {
	dbFrom := "nuccore"
	id := acc.ID
	if acc.Source == accession.SequencingRun {
		dbFrom = "sra"
		// elink does not accept run accessions, only SRA UIDs
		uid, err := n.search(ctx, dbFrom, acc.ID)
		if err != nil {
			return "", err
		}
		id = uid
	}

	params := url.Values{}
	params.Set("dbfrom", dbFrom)
	params.Set("db", "biosample")
	params.Set("id", id)

	body, err := n.get(ctx, "elink", params)
	if err != nil {
		return "", err
	}
	res, err := parseLink(body)
	if err != nil {
		return "", err
	}
	if res == "" {
		return "", remote.NotFound("elink "+dbFrom, acc.ID)
	}
	return res, nil
}

func (n *ncbi) FetchSampleAttributes(
	ctx context.Context,
	sampleID string,
) (remote.Payload, error) {
	params := url.Values{}
	params.Set("db", "biosample")
	params.Set("id", sampleID)
	params.Set("retmode", "xml")

	body, err := n.get(ctx, "efetch", params)
	if err != nil {
		return nil, err
	}
	attrs, err := parseBioSample(body)
	if err != nil {
		return nil, err
	}
	if len(attrs) == 0 {
		return nil, remote.NotFound("efetch biosample", sampleID)
	}
	return remote.AttributeList{Attrs: attrs}, nil
}

// search returns the first UID found by esearch for term.
func (n *ncbi) search(ctx context.Context, db, term string) (string, error) {
	params := url.Values{}
	params.Set("db", db)
	params.Set("term", term)

	body, err := n.get(ctx, "esearch", params)
	if err != nil {
		return "", err
	}
	res, err := parseSearch(body)
	if err != nil {
		return "", err
	}
	if res == "" {
		return "", remote.NotFound("esearch "+db, term)
	}
	return res, nil
}

// get performs one E-utilities request and classifies its failure.
func (n *ncbi) get(ctx context.Context, op string, params url.Values) ([]byte, error) {
	if wait := n.limiter.Reserve(); wait > 0 {
		slog.Debug("Waiting for NCBI request budget",
			"op", op, "wait", wait.String())
	}
	if err := n.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	if n.tool != "" {
		params.Set("tool", n.tool)
	}
	if n.email != "" {
		params.Set("email", n.email)
	}
	if n.apiKey != "" {
		params.Set("api_key", n.apiKey)
	}
	id := params.Get("id")
	if id == "" {
		id = params.Get("term")
	}

	u := fmt.Sprintf("%s/%s.fcgi?%s", n.baseURL, op, params.Encode())
	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot create %s request: %w", op, err)
	}

	start := time.Now()
	resp, err := n.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		slog.Info("NCBI request failed",
			"op", op, "db", params.Get("db"), "id", id, "error", err)
		return nil, remote.Transient(op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, remote.Transient(op, err)
	}

	slog.Info("NCBI request",
		"op", op,
		"db", params.Get("db"),
		"id", id,
		"status", resp.StatusCode,
		"duration", time.Since(start).String(),
	)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, remote.Transient(op, fmt.Errorf("rate limit exceeded (HTTP 429)"))
	case resp.StatusCode >= 500:
		return nil, remote.Transient(op, fmt.Errorf("HTTP %d", resp.StatusCode))
	case resp.StatusCode == http.StatusBadRequest, resp.StatusCode == http.StatusNotFound:
		return nil, remote.NotFound(op, id)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%s: unexpected HTTP %d", op, resp.StatusCode)
	}

	return classifyBody(op, id, body)
}

func classifyBody(op, id string, body []byte) ([]byte, error) {
	text := strings.TrimSpace(string(body))
	switch {
	case text == "":
		return nil, remote.NotFound(op, id)
	case strings.Contains(text, "API rate limit exceeded"):
		return nil, remote.Transient(op, fmt.Errorf("rate limit exceeded"))
	case strings.HasPrefix(text, "Error"),
		strings.HasPrefix(text, "<ERROR>"),
		strings.Contains(text, "Cannot retrieve"):
		return nil, remote.NotFound(op, id)
	}
	return body, nil
}
