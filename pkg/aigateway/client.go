package aigateway

// Client for the reasoning service that turns natural-language questions
// into SQL and executes it against the caller-described data source:
// - query
// - schema
// - suggest_questions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/askdb-ai/askdb/pkg/types"
)

type Client struct {
	client     *http.Client
	endpoint   string
	maxRetries int
}

type Option func(*Client)

// WithHTTPClient replaces the default transport, mainly for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Client) {
		s.client = c
	}
}

// WithMaxRetries enables re-sending a failed request up to n extra times.
// Retries only cover transport errors and 5xx responses.
func WithMaxRetries(n int) Option {
	return func(s *Client) {
		s.maxRetries = n
	}
}

func New(endpoint string, opts ...Option) *Client {
	s := &Client{
		client:   &http.Client{Timeout: time.Second * 120},
		endpoint: endpoint,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type QueryRequest struct {
	Question     string             `json:"question"`
	DBConnection types.DBConnection `json:"db_connection"`
	History      []string           `json:"history"`
}

type QueryResponse struct {
	Question string `json:"question"`
	SQL      string `json:"sql"`
	Data     any    `json:"data"`
}

func (s *Client) Query(ctx context.Context, request QueryRequest) (*QueryResponse, error) {
	slog.Debug("gateway query", slog.String("endpoint", s.endpoint), slog.String("question", request.Question))

	var result QueryResponse
	if err := s.post(ctx, "/query", request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type SchemaRequest struct {
	DBConnection types.DBConnection `json:"db_connection"`
}

type SchemaColumn struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type SchemaTable struct {
	Name    string         `json:"name"`
	Columns []SchemaColumn `json:"columns"`
}

type SchemaRelationship struct {
	From    string   `json:"from"`
	To      string   `json:"to"`
	Cols    []string `json:"cols"`
	RefCols []string `json:"refCols"`
}

type SchemaResponse struct {
	Tables        []SchemaTable        `json:"tables"`
	Relationships []SchemaRelationship `json:"relationships"`
}

func (s *Client) Schema(ctx context.Context, conn types.DBConnection) (*SchemaResponse, error) {
	slog.Debug("gateway schema", slog.String("endpoint", s.endpoint))

	var result SchemaResponse
	if err := s.post(ctx, "/schema", SchemaRequest{DBConnection: conn}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type SuggestQuestionsResponse struct {
	Questions []string `json:"questions"`
}

func (s *Client) SuggestQuestions(ctx context.Context, conn types.DBConnection) ([]string, error) {
	slog.Debug("gateway suggest questions", slog.String("endpoint", s.endpoint))

	var result SuggestQuestionsResponse
	if err := s.post(ctx, "/suggest_questions", SchemaRequest{DBConnection: conn}, &result); err != nil {
		return nil, err
	}
	return result.Questions, nil
}

func (s *Client) post(ctx context.Context, path string, request, result any) error {
	raw, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to marshal gateway request, %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			slog.Warn("retrying gateway request",
				slog.String("path", path),
				slog.Int("attempt", attempt),
				slog.String("error", lastErr.Error()))
		}

		var retryable bool
		retryable, lastErr = s.postOnce(ctx, path, raw, result)
		if lastErr == nil {
			return nil
		}
		if !retryable || ctx.Err() != nil {
			return lastErr
		}
	}
	return lastErr
}

func (s *Client) postOnce(ctx context.Context, path string, raw []byte, result any) (retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+path, bytes.NewReader(raw))
	if err != nil {
		return false, err
	}
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return true, fmt.Errorf("failed to request gateway %s, %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return true, err
	}

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode >= http.StatusInternalServerError,
			fmt.Errorf("failed to request gateway %s, %s, %s", path, resp.Status, string(body))
	}

	if err = json.Unmarshal(body, result); err != nil {
		return false, fmt.Errorf("failed to unmarshal gateway response, %w", err)
	}
	return false, nil
}
