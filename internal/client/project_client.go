package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/fortytwo-ai/horizon/internal/project"
)

// ProjectClient reads the project catalog from a running server.
type ProjectClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewProjectClient creates a client for the server at baseURL. A nil
// httpClient means http.DefaultClient.
func NewProjectClient(baseURL string, httpClient *http.Client) *ProjectClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ProjectClient{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

// APIError is a response with success=false or a non-2xx status.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server returned %d (%s): %s", e.Status, e.Code, e.Message)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
}

// ListProjects fetches the whole catalog.
func (c *ProjectClient) ListProjects(ctx context.Context) ([]*project.Project, error) {
	var projects []*project.Project
	if err := c.get(ctx, "/api/projects", &projects); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	if projects == nil {
		projects = []*project.Project{}
	}
	return projects, nil
}

// ListFeaturedProjects fetches the featured subset.
func (c *ProjectClient) ListFeaturedProjects(ctx context.Context) ([]*project.Project, error) {
	var projects []*project.Project
	if err := c.get(ctx, "/api/projects/featured", &projects); err != nil {
		return nil, fmt.Errorf("failed to list featured projects: %w", err)
	}
	return projects, nil
}

// GetProject fetches one project. An unknown id is an *APIError with status
// 404.
func (c *ProjectClient) GetProject(ctx context.Context, id string) (*project.Project, error) {
	var p project.Project
	if err := c.get(ctx, "/api/projects/"+url.PathEscape(id), &p); err != nil {
		return nil, fmt.Errorf("failed to get project %s: %w", id, err)
	}
	return &p, nil
}

func (c *ProjectClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("malformed response: %w", err)
	}
	if !env.Success || resp.StatusCode >= http.StatusBadRequest {
		return &APIError{Status: resp.StatusCode, Code: env.Code, Message: env.Message}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("malformed response data: %w", err)
	}
	return nil
}
