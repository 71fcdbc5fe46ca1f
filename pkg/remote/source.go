package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"golang.org/x/oauth2"
)

// Source returns every agenda of the current user with tasks and subtasks nested.
type Source interface {
	FetchAgendas(ctx context.Context) ([]Agenda, error)
}

// StaticSource serves a fixed snapshot.
type StaticSource []Agenda

func (s StaticSource) FetchAgendas(context.Context) ([]Agenda, error) {
	return s, nil
}

// FileSource reads a snapshot exported to a JSON file.
type FileSource struct {
	Path string
}

func (s FileSource) FetchAgendas(context.Context) ([]Agenda, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var agendas []Agenda
	if err := json.NewDecoder(f).Decode(&agendas); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", s.Path, err)
	}
	return agendas, nil
}

// HTTPSource queries a REST endpoint that embeds tasks and subtasks in each
// agenda row. Requests carry the API key both as a bearer token and as the
// apikey header.
type HTTPSource struct {
	BaseURL string
	APIKey  string
	UserID  string
	client  *http.Client
}

func NewHTTPSource(ctx context.Context, baseURL, apiKey, userID string) *HTTPSource {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey, TokenType: "Bearer"})
	return &HTTPSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		UserID:  userID,
		client:  oauth2.NewClient(ctx, ts),
	}
}

func (s *HTTPSource) endpoint() string {
	q := url.Values{}
	q.Set("select", "*,tasks(*,subtasks(*))")
	if s.UserID != "" {
		q.Set("user_id", "eq."+s.UserID)
	}
	return s.BaseURL + "/rest/v1/agendas?" + q.Encode()
}

func (s *HTTPSource) FetchAgendas(ctx context.Context) ([]Agenda, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", s.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch agendas: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch agendas: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var agendas []Agenda
	if err := json.NewDecoder(resp.Body).Decode(&agendas); err != nil {
		return nil, fmt.Errorf("failed to decode agendas: %w", err)
	}
	return agendas, nil
}
