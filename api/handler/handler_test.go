package handler_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/taskbox/internal/testutil"
)

type apiClient struct {
	t      *testing.T
	client *fasthttp.Client
}

func (c apiClient) do(method, path, token, body string) (int, []byte) {
	c.t.Helper()
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod(method)
	req.SetRequestURI("http://taskbox.test" + path)
	if token != "" {
		req.Header.Set("x-auth-token", token)
	}
	if body != "" {
		req.Header.SetContentType("application/json")
		req.SetBodyString(body)
	}
	require.NoError(c.t, c.client.Do(req, resp))
	return resp.StatusCode(), append([]byte(nil), resp.Body()...)
}

func (c apiClient) register(email string) string {
	c.t.Helper()
	status, body := c.do(http.MethodPost, "/api/auth/register", "", `{"email":"`+email+`","password":"secret1"}`)
	require.Equal(c.t, http.StatusOK, status, string(body))
	var out struct {
		Token string `json:"token"`
		User  struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(c.t, json.Unmarshal(body, &out))
	require.Equal(c.t, email, out.User.Email)
	return out.Token
}

type taskBody struct {
	ID          string   `json:"id"`
	User        string   `json:"user"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Completed   bool     `json:"completed"`
	ExpiryDate  string   `json:"expiryDate"`
}

func TestTaskScenario(t *testing.T) {
	srv := testutil.NewServer(t, testutil.ServerOptions{})
	api := apiClient{t: t, client: srv.Client()}

	token := api.register("a@x.com")

	status, body := api.do(http.MethodPost, "/api/tasks", token, `{"title":"t1","description":"d1","expiryDate":"2099-01-01"}`)
	require.Equal(t, http.StatusOK, status, string(body))
	var created taskBody
	require.NoError(t, json.Unmarshal(body, &created))
	assert.False(t, created.Completed)
	assert.Equal(t, "2099-01-01", created.ExpiryDate)
	assert.Equal(t, []string{}, created.Tags)

	status, body = api.do(http.MethodGet, "/api/tasks", token, "")
	require.Equal(t, http.StatusOK, status)
	var listed []taskBody
	require.NoError(t, json.Unmarshal(body, &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, created, listed[0])

	status, body = api.do(http.MethodPut, "/api/tasks/"+created.ID, token, `{"completed":true,"user":"someone-else"}`)
	require.Equal(t, http.StatusOK, status, string(body))
	var updated taskBody
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.True(t, updated.Completed)
	assert.Equal(t, created.User, updated.User, "owner is not writable")

	status, body = api.do(http.MethodDelete, "/api/tasks/"+created.ID, token, "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"msg":"Task removed"}`, string(body))

	status, body = api.do(http.MethodGet, "/api/tasks", token, "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body))

	status, body = api.do(http.MethodGet, "/api/tasks/"+created.ID, token, "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body))
}

func TestErrorResponses(t *testing.T) {
	srv := testutil.NewServer(t, testutil.ServerOptions{})
	api := apiClient{t: t, client: srv.Client()}

	alice := api.register("alice@x.com")
	bob := api.register("bob@x.com")

	status, body := api.do(http.MethodPost, "/api/tasks", alice, `{"title":"t1","description":"d1","expiryDate":"2099-01-01"}`)
	require.Equal(t, http.StatusOK, status)
	var task taskBody
	require.NoError(t, json.Unmarshal(body, &task))

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   string
		status int
		msg    string
	}{
		{"duplicate email", http.MethodPost, "/api/auth/register", "", `{"email":"alice@x.com","password":"secret1"}`, http.StatusBadRequest, "Email already exists. Please register with new email"},
		{"bad email", http.MethodPost, "/api/auth/register", "", `{"email":"nope","password":"secret1"}`, http.StatusBadRequest, "Please include a valid email"},
		{"wrong password", http.MethodPost, "/api/auth/login", "", `{"email":"alice@x.com","password":"wrong1"}`, http.StatusBadRequest, "Invalid credentials"},
		{"unknown email", http.MethodPost, "/api/auth/login", "", `{"email":"carol@x.com","password":"secret1"}`, http.StatusBadRequest, "Invalid credentials"},
		{"malformed json", http.MethodPost, "/api/auth/login", "", `{"email":`, http.StatusBadRequest, "invalid payload"},
		{"no token", http.MethodGet, "/api/tasks", "", "", http.StatusUnauthorized, "Not Authorized"},
		{"bad token", http.MethodGet, "/api/auth/user", "garbage", "", http.StatusUnauthorized, "Token is invalid"},
		{"missing title", http.MethodPost, "/api/tasks", alice, `{"description":"d1","expiryDate":"2099-01-01"}`, http.StatusBadRequest, "Title is required"},
		{"bad date", http.MethodPost, "/api/tasks", alice, `{"title":"t","description":"d","expiryDate":"someday"}`, http.StatusBadRequest, "invalid payload"},
		{"update missing", http.MethodPut, "/api/tasks/does-not-exist", alice, `{"completed":true}`, http.StatusNotFound, "Task not found"},
		{"update foreign", http.MethodPut, "/api/tasks/" + task.ID, bob, `{"completed":true}`, http.StatusUnauthorized, "Not authorized"},
		{"delete foreign", http.MethodDelete, "/api/tasks/" + task.ID, bob, "", http.StatusUnauthorized, "Not authorized"},
		{"delete missing", http.MethodDelete, "/api/tasks/does-not-exist", bob, "", http.StatusNotFound, "Task not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := api.do(tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.status, status, string(body))

			var msg struct {
				Msg string `json:"msg"`
			}
			require.NoError(t, json.Unmarshal(body, &msg))
			assert.Equal(t, tt.msg, msg.Msg)
		})
	}

	status, body = api.do(http.MethodGet, "/api/tasks", bob, "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body), "bob never sees alice's task")
}

func TestValidationListsEveryField(t *testing.T) {
	srv := testutil.NewServer(t, testutil.ServerOptions{})
	api := apiClient{t: t, client: srv.Client()}
	token := api.register("a@x.com")

	status, body := api.do(http.MethodPost, "/api/tasks", token, `{}`)
	require.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{
		"msg": "Title is required",
		"errors": [
			{"field": "title", "msg": "Title is required"},
			{"field": "description", "msg": "Description is required"},
			{"field": "expiryDate", "msg": "Expiry Date is required"}
		]
	}`, string(body))
}

func TestUserAndLogout(t *testing.T) {
	srv := testutil.NewServer(t, testutil.ServerOptions{Revocation: true})
	api := apiClient{t: t, client: srv.Client()}
	token := api.register("a@x.com")

	status, body := api.do(http.MethodGet, "/api/auth/user", token, "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"email":"a@x.com"`)
	assert.NotContains(t, strings.ToLower(string(body)), "password")

	status, _ = api.do(http.MethodPost, "/api/auth/logout", token, "")
	require.Equal(t, http.StatusOK, status)

	status, body = api.do(http.MethodGet, "/api/auth/user", token, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.JSONEq(t, `{"msg":"Token is invalid"}`, string(body))
}

func TestOperationalEndpoints(t *testing.T) {
	srv := testutil.NewServer(t, testutil.ServerOptions{})
	api := apiClient{t: t, client: srv.Client()}

	status, body := api.do(http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, status, string(body))
	var health struct {
		Status   string          `json:"status"`
		Services map[string]bool `json:"services"`
	}
	require.NoError(t, json.Unmarshal(body, &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, map[string]bool{"bolt": true}, health.Services)

	api.do(http.MethodGet, "/api/tasks", "", "")
	status, body = api.do(http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `route="/api/tasks"`)
}
