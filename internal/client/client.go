// Package client talks to the resume API on behalf of the command line tool
// and keeps the client side view of the signed-in user and their resumes.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/redmonkez12/cvbuilder/internal/httputil"
	"github.com/redmonkez12/cvbuilder/internal/resume"
	"github.com/redmonkez12/cvbuilder/internal/user"
)

// ErrNotSignedIn is returned before any request that needs a token
var ErrNotSignedIn = errors.New("not signed in")

// APIError is a non-2xx reply. Message is the server's message, shown verbatim.
type APIError struct {
	Status  int
	Message string
	Code    string
	Details any
}

func (e *APIError) Error() string {
	return e.Message
}

// IsStatus reports whether err is an APIError with the given status
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// AuthResult is the reply to register and login
type AuthResult struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

type mutationResponse struct {
	Message string         `json:"message"`
	Resume  *resume.Resume `json:"resume"`
}

// Client is a thin JSON client for the resume API
type Client struct {
	BaseURL string
	HTTP    *http.Client

	mu      sync.RWMutex
	session Session
}

func New(baseURL string, session Session, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
		session: session,
	}
}

func (c *Client) Session() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

func (c *Client) SetSession(s Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	var out AuthResult
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/register", body, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var out AuthResult
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Me(ctx context.Context) (*user.User, error) {
	var out struct {
		User *user.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out, true); err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, true)
}

func (c *Client) DeleteAccount(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/auth/me", nil, nil, true)
}

func (c *Client) ListResumes(ctx context.Context) ([]resume.Resume, error) {
	var out []resume.Resume
	if err := c.do(ctx, http.MethodGet, "/resume", nil, &out, true); err != nil {
		return nil, err
	}
	if out == nil {
		out = []resume.Resume{}
	}
	return out, nil
}

func (c *Client) GetResume(ctx context.Context, id string) (*resume.Resume, error) {
	var out resume.Resume
	if err := c.do(ctx, http.MethodGet, "/resume/"+url.PathEscape(id), nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateResume(ctx context.Context, content resume.Content) (*resume.Resume, error) {
	var out mutationResponse
	if err := c.do(ctx, http.MethodPost, "/resume", content, &out, true); err != nil {
		return nil, err
	}
	return out.Resume, nil
}

func (c *Client) UpdateResume(ctx context.Context, id string, content resume.Content) (*resume.Resume, error) {
	var out mutationResponse
	if err := c.do(ctx, http.MethodPut, "/resume/"+url.PathEscape(id), content, &out, true); err != nil {
		return nil, err
	}
	return out.Resume, nil
}

func (c *Client) DeleteResume(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/resume/"+url.PathEscape(id), nil, nil, true)
}

// Preview fetches the server rendered HTML. An empty template keeps the
// resume's own.
func (c *Client) Preview(ctx context.Context, id, template string) ([]byte, error) {
	path := "/resume/" + url.PathEscape(id) + "/preview"
	if template != "" {
		path += "?template=" + url.QueryEscape(template)
	}

	resp, err := c.send(ctx, http.MethodGet, path, nil, true)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any, authed bool) error {
	resp, err := c.send(ctx, method, path, in, authed)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

// send performs the request and turns any non-2xx reply into an *APIError.
// On success the caller owns the body.
func (c *Client) send(ctx context.Context, method, path string, in any, authed bool) (*http.Response, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		token := c.Session().Token
		if token == "" {
			return nil, ErrNotSignedIn
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, decodeAPIError(resp)
	}
	return resp, nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var body httputil.ErrorResponse
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if json.Unmarshal(data, &body) == nil && body.Message != "" {
		apiErr.Message = body.Message
		apiErr.Code = body.Code
		apiErr.Details = body.Details
	} else {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
