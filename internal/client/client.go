// Package client talks to the cropdesk HTTP API. Every user-scoped call
// takes the caller's Session explicitly.
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

	"cropdesk/internal/advisory"
	"cropdesk/internal/crop"
	"cropdesk/internal/profile"
)

var ErrNoSession = errors.New("client: session required")

// APIError is any non-2xx answer. No partial result accompanies it.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("cropdesk api: %d %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// Session holds a bearer token until Close.
type Session struct {
	mu    sync.Mutex
	token string
}

func (s *Session) Token() string {
	if s == nil {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Session) Close() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}

type Client struct {
	// BaseURL includes the API prefix, e.g. https://host/api.
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	FarmSize  string    `json:"farmSize"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"createdAt"`
}

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	FarmSize string `json:"farmSize"`
	Location string `json:"location"`
}

type ProfileResponse struct {
	Profile profile.Profile `json:"profile"`
	Email   string          `json:"email"`
}

func (c *Client) Signup(ctx context.Context, req SignupRequest) (User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/signup", "", req, &out); err != nil {
		return User{}, err
	}
	return out.User, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, User, error) {
	var out struct {
		AccessToken string `json:"access_token"`
		User        User   `json:"user"`
	}
	in := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/login", "", in, &out); err != nil {
		return nil, User{}, err
	}
	return &Session{token: out.AccessToken}, out.User, nil
}

// Resume checks a stored token against the API and wraps it in a Session.
func (c *Client) Resume(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	if err := c.do(ctx, http.MethodGet, "/profile", token, nil, nil); err != nil {
		return nil, err
	}
	return &Session{token: token}, nil
}

func (c *Client) Profile(ctx context.Context, s *Session) (ProfileResponse, error) {
	var out ProfileResponse
	token, err := required(s)
	if err != nil {
		return out, err
	}
	err = c.do(ctx, http.MethodGet, "/profile", token, nil, &out)
	return out, err
}

// ListCrops accepts a nil session and then gets the anonymous (empty) list.
func (c *Client) ListCrops(ctx context.Context, s *Session) ([]crop.Crop, error) {
	var out struct {
		Crops []crop.Crop `json:"crops"`
	}
	if err := c.do(ctx, http.MethodGet, "/crops", s.Token(), nil, &out); err != nil {
		return nil, err
	}
	return out.Crops, nil
}

func (c *Client) CreateCrop(ctx context.Context, s *Session, in crop.NewCrop) (crop.Crop, error) {
	var out struct {
		Crop crop.Crop `json:"crop"`
	}
	token, err := required(s)
	if err != nil {
		return crop.Crop{}, err
	}
	if err := c.do(ctx, http.MethodPost, "/crops", token, in, &out); err != nil {
		return crop.Crop{}, err
	}
	return out.Crop, nil
}

func (c *Client) UpdateCrop(ctx context.Context, s *Session, id string, p crop.Patch) (crop.Crop, error) {
	var out struct {
		Crop crop.Crop `json:"crop"`
	}
	token, err := required(s)
	if err != nil {
		return crop.Crop{}, err
	}
	if err := c.do(ctx, http.MethodPut, "/crops/"+url.PathEscape(id), token, p, &out); err != nil {
		return crop.Crop{}, err
	}
	return out.Crop, nil
}

func (c *Client) DeleteCrop(ctx context.Context, s *Session, id string) error {
	token, err := required(s)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/crops/"+url.PathEscape(id), token, nil, nil)
}

func (c *Client) Recommend(ctx context.Context, s *Session, req advisory.Request) ([]advisory.Recommendation, error) {
	var out struct {
		Recommendations []advisory.Recommendation `json:"recommendations"`
	}
	token, err := required(s)
	if err != nil {
		return nil, err
	}
	if err := c.do(ctx, http.MethodPost, "/recommendations", token, req, &out); err != nil {
		return nil, err
	}
	return out.Recommendations, nil
}

func (c *Client) Consult(ctx context.Context, s *Session, in advisory.ConsultationInput) (advisory.Consultation, error) {
	var out struct {
		Consultation advisory.Consultation `json:"consultation"`
	}
	token, err := required(s)
	if err != nil {
		return advisory.Consultation{}, err
	}
	if err := c.do(ctx, http.MethodPost, "/consultation", token, in, &out); err != nil {
		return advisory.Consultation{}, err
	}
	return out.Consultation, nil
}

func required(s *Session) (string, error) {
	token := s.Token()
	if token == "" {
		return "", ErrNoSession
	}
	return token, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&e)
		if e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
