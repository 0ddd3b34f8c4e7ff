// Package gateway is the client side of the REST API. Every call feeds its
// outcome into the state store.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskbox/api/transport"
	"github.com/fastygo/taskbox/domain"
	"github.com/fastygo/taskbox/internal/client/state"
)

// TokenHeader carries the stored session token.
const TokenHeader = "x-auth-token"

// TokenStore persists the session token between runs.
type TokenStore interface {
	Get() (string, error)
	Set(token string) error
	Delete() error
}

type Config struct {
	BaseURL string
	Timeout time.Duration
	// Dial replaces the network dialer, e.g. with an in-memory listener.
	Dial fasthttp.DialFunc
}

type Client struct {
	baseURL string
	timeout time.Duration
	http    *fasthttp.Client
	tokens  TokenStore
	store   *state.Store
	logger  *zap.Logger
}

func New(cfg Config, tokens TokenStore, store *state.Store, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
		http: &fasthttp.Client{
			Name:                   "taskctl",
			Dial:                   cfg.Dial,
			ReadTimeout:            cfg.Timeout,
			WriteTimeout:           cfg.Timeout,
			DisablePathNormalizing: true,
		},
		tokens: tokens,
		store:  store,
		logger: logger,
	}
}

// Register creates an account and stores the returned token.
func (c *Client) Register(ctx context.Context, email, password string) Result {
	return c.authenticate(ctx, "/auth/register", email, password, state.RegisterSucceeded, state.RegisterFailed)
}

// Login signs in and stores the returned token.
func (c *Client) Login(ctx context.Context, email, password string) Result {
	return c.authenticate(ctx, "/auth/login", email, password, state.LoginSucceeded, state.LoginFailed)
}

func (c *Client) authenticate(
	ctx context.Context,
	path, email, password string,
	succeeded func(state.Session) state.Action,
	failed func(string) state.Action,
) Result {
	res := c.do(ctx, fasthttp.MethodPost, path, transport.CredentialsRequest{Email: email, Password: password}, false)
	success, ok := res.(Success)
	if !ok {
		c.fail(res, failed)
		return res
	}

	var session state.Session
	if err := json.Unmarshal(success.Body, &session); err != nil || session.Token == "" {
		c.logger.Warn("unexpected auth response", zap.String("path", path), zap.Error(err))
		res = HTTPError{Status: success.Status, Message: "unexpected response from server"}
		c.store.Dispatch(failed(res.Error()))
		return res
	}
	if err := c.tokens.Set(session.Token); err != nil {
		c.logger.Error("failed to persist token", zap.Error(err))
	}
	c.store.Dispatch(succeeded(session))
	return res
}

// Logout tells the server to drop the token when one is stored, then always
// forgets it locally. A server that is down does not keep the user signed in.
func (c *Client) Logout(ctx context.Context) Result {
	var res Result = Success{Status: http.StatusOK}
	if token, _ := c.tokens.Get(); token != "" {
		res = c.do(ctx, fasthttp.MethodPost, "/auth/logout", nil, true)
		if !res.OK() {
			c.logger.Debug("server logout failed", zap.String("reason", res.Error()))
		}
	}
	c.clearSession()
	return res
}

// Me returns the signed-in account.
func (c *Client) Me(ctx context.Context) (*domain.Account, Result) {
	res := c.do(ctx, fasthttp.MethodGet, "/auth/user", nil, true)
	if !c.handle(res) {
		return nil, res
	}
	var account domain.Account
	if err := json.Unmarshal(res.(Success).Body, &account); err != nil {
		return nil, c.malformed(res, err)
	}
	return &account, res
}

// GetTasks loads every task of the caller.
func (c *Client) GetTasks(ctx context.Context) ([]domain.Task, Result) {
	res := c.do(ctx, fasthttp.MethodGet, "/tasks", nil, true)
	if !c.handle(res) {
		return nil, res
	}
	var tasks []domain.Task
	if err := json.Unmarshal(res.(Success).Body, &tasks); err != nil {
		return nil, c.malformed(res, err)
	}
	c.store.Dispatch(state.ServerCameUp())
	c.store.Dispatch(state.TasksLoaded(tasks))
	return tasks, res
}

// GetTask returns a list of zero or one task. It does not change the state
// on success.
func (c *Client) GetTask(ctx context.Context, id string) ([]domain.Task, Result) {
	res := c.do(ctx, fasthttp.MethodGet, taskPath(id), nil, true)
	if !c.handle(res) {
		return nil, res
	}
	var tasks []domain.Task
	if err := json.Unmarshal(res.(Success).Body, &tasks); err != nil {
		return nil, c.malformed(res, err)
	}
	return tasks, res
}

func (c *Client) AddTask(ctx context.Context, req transport.TaskCreateRequest) (*domain.Task, Result) {
	res := c.do(ctx, fasthttp.MethodPost, "/tasks", req, true)
	return c.taskResult(res, state.TaskAdded)
}

func (c *Client) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, Result) {
	res := c.do(ctx, fasthttp.MethodPut, taskPath(id), patch, true)
	return c.taskResult(res, state.TaskUpdated)
}

func (c *Client) DeleteTask(ctx context.Context, id string) Result {
	res := c.do(ctx, fasthttp.MethodDelete, taskPath(id), nil, true)
	if c.handle(res) {
		c.store.Dispatch(state.TaskDeleted(id))
	}
	return res
}

func (c *Client) taskResult(res Result, succeeded func(domain.Task) state.Action) (*domain.Task, Result) {
	if !c.handle(res) {
		return nil, res
	}
	var task domain.Task
	if err := json.Unmarshal(res.(Success).Body, &task); err != nil {
		return nil, c.malformed(res, err)
	}
	c.store.Dispatch(succeeded(task))
	return &task, res
}

// handle applies the failure rules shared by every gated call and reports
// whether res is a success.
func (c *Client) handle(res Result) bool {
	switch r := res.(type) {
	case Success:
		return true
	case HTTPError:
		if r.Unauthorized() {
			c.clearSession()
		}
	case NetworkUnreachable:
		c.store.Dispatch(state.ServerWentDown())
	}
	return false
}

// fail is handle for account operations: other error responses become
// REGISTER_ERROR or LOGIN_ERROR with the server's message.
func (c *Client) fail(res Result, failed func(string) state.Action) {
	if r, ok := res.(HTTPError); ok && !r.Unauthorized() {
		c.store.Dispatch(failed(r.Error()))
		return
	}
	c.handle(res)
}

func (c *Client) clearSession() {
	if err := c.tokens.Delete(); err != nil {
		c.logger.Error("failed to clear token", zap.Error(err))
	}
	c.store.Dispatch(state.LoggedOut())
}

func (c *Client) malformed(res Result, err error) Result {
	c.logger.Warn("malformed response body", zap.Error(err))
	return HTTPError{Status: res.(Success).Status, Message: "unexpected response from server"}
}

// taskPath keeps an id inside its own path segment.
func taskPath(id string) string {
	return "/tasks/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, auth bool) Result {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return HTTPError{Status: http.StatusBadRequest, Message: err.Error()}
		}
		req.Header.SetContentType("application/json")
		req.SetBody(payload)
	}
	if auth {
		token, err := c.tokens.Get()
		if err != nil {
			c.logger.Error("failed to read token", zap.Error(err))
		}
		if token != "" {
			req.Header.Set(TokenHeader, token)
		}
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			err = ctx.Err()
		}
		c.logger.Debug("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return NetworkUnreachable{Err: err}
	}

	status := resp.StatusCode()
	c.logger.Debug("request done", zap.String("method", method), zap.String("path", path), zap.Int("status", status))
	if status >= 200 && status < 300 {
		return Success{Status: status, Body: append([]byte(nil), resp.Body()...)}
	}
	var msg transport.Message
	if err := json.Unmarshal(resp.Body(), &msg); err != nil {
		return HTTPError{Status: status}
	}
	return HTTPError{Status: status, Message: msg.Msg, Fields: msg.Errors}
}
