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
	"strconv"
	"strings"
	"time"

	"userdesk/internal/entity"
	"userdesk/internal/entity/dto"
)

const (
	DefaultBaseURL = "http://127.0.0.1:8080"
	DefaultTimeout = 5 * time.Second

	usersPath = "/api/users"
)

// Remote is the canonical collection as seen from the client.
type Remote interface {
	List(ctx context.Context) ([]entity.User, error)
	Create(ctx context.Context, input entity.UserInput) (*entity.User, error)
	Update(ctx context.Context, id int64, input entity.UserInput) (*entity.User, error)
	Delete(ctx context.Context, id int64) error
}

// RemoteError is a response the client could not accept: a non-2xx status, a
// body without success:true, or a mutation response missing its user.
type RemoteError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("users api http %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("users api http %d: %s", e.StatusCode, e.Message)
}

// HTTPRemote talks to the users endpoint of a running server.
type HTTPRemote struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

func NewHTTPRemote(baseURL string, timeout time.Duration) (*HTTPRemote, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("users api base url: %w", err)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPRemote{
		baseURL:    base,
		timeout:    timeout,
		httpClient: &http.Client{},
	}, nil
}

// envelope covers every success and error body the server returns.
type envelope struct {
	Success bool          `json:"success"`
	Code    string        `json:"code"`
	Message string        `json:"message"`
	User    *entity.User  `json:"user"`
	Users   []entity.User `json:"users"`
}

func (r *HTTPRemote) List(ctx context.Context) ([]entity.User, error) {
	env, err := r.do(ctx, http.MethodGet, usersPath, nil)
	if err != nil {
		return nil, err
	}
	if env.Users == nil {
		return []entity.User{}, nil
	}
	return env.Users, nil
}

func (r *HTTPRemote) Create(ctx context.Context, input entity.UserInput) (*entity.User, error) {
	env, err := r.do(ctx, http.MethodPost, usersPath, dto.UserCreateRequest{User: &input})
	if err != nil {
		return nil, err
	}
	if env.User == nil {
		return nil, &RemoteError{StatusCode: http.StatusOK, Message: "response is missing the user"}
	}
	return env.User, nil
}

func (r *HTTPRemote) Update(ctx context.Context, id int64, input entity.UserInput) (*entity.User, error) {
	env, err := r.do(ctx, http.MethodPut, usersPath, dto.UserUpdateRequest{ID: id, User: &input})
	if err != nil {
		return nil, err
	}
	if env.User == nil {
		return nil, &RemoteError{StatusCode: http.StatusOK, Message: "response is missing the user"}
	}
	return env.User, nil
}

func (r *HTTPRemote) Delete(ctx context.Context, id int64) error {
	_, err := r.do(ctx, http.MethodDelete, usersPath+"?id="+strconv.FormatInt(id, 10), nil)
	return err
}

func (r *HTTPRemote) do(ctx context.Context, method, path string, payload any) (*envelope, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		bs, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("users api marshal request: %w", err)
		}
		body = bytes.NewReader(bs)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("users api create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("users api %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("users api read response: %w", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		remoteErr := &RemoteError{StatusCode: resp.StatusCode, Code: env.Code, Message: env.Message}
		if decodeErr != nil || remoteErr.Message == "" {
			remoteErr.Message = strings.TrimSpace(string(raw))
		}
		return nil, remoteErr
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("users api decode response: %w", decodeErr)
	}
	if !env.Success {
		return nil, &RemoteError{StatusCode: resp.StatusCode, Code: env.Code, Message: env.Message}
	}
	return &env, nil
}

// IsRemoteStatus reports whether err is a RemoteError with the given status.
func IsRemoteStatus(err error, status int) bool {
	var remoteErr *RemoteError
	return errors.As(err, &remoteErr) && remoteErr.StatusCode == status
}

var errNoRemote = errors.New("users api is not configured")
