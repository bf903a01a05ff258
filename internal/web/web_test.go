package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs"
	"github.com/go-chi/chi/v5"
	"github.com/sidereusnuntius/gonovel/internal/catalog"
	"github.com/sidereusnuntius/gonovel/internal/config"
	"github.com/sidereusnuntius/gonovel/internal/localstore"
	"github.com/sidereusnuntius/gonovel/internal/service"
	"github.com/sidereusnuntius/gonovel/internal/service/impl"
	"github.com/sidereusnuntius/gonovel/internal/state"
	"github.com/sidereusnuntius/gonovel/internal/storage/filestore"
	"github.com/sidereusnuntius/gonovel/templates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return time.Date(2025, 10, 1, 12, 30, 0, 0, time.UTC) }

type client struct {
	t      *testing.T
	server *httptest.Server
	http   *http.Client
}

func newClient(t *testing.T) *client {
	t.Helper()
	store, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	cfg := &config.Configuration{Name: "gonovel", StaticDir: "../../static"}
	svc := impl.New(&state.State{
		Store:   localstore.New(store),
		Catalog: catalog.New("../catalog/testdata/catalog.json", nil),
		Config:  *cfg,
		Clock:   fixedClock{},
	})

	key, err := config.RandomSessionKey()
	require.NoError(t, err)
	handler := New(cfg, svc, scs.NewCookieManager(key))
	router := chi.NewRouter()
	handler.Mount(router)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{t: t, server: server, http: &http.Client{Jar: jar}}
}

// do sends the request, following redirects, and returns the final status and body.
func (c *client) do(method, path string, form url.Values) (int, string) {
	c.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, c.server.URL+path, body)
	require.NoError(c.t, err)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	res, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	require.NoError(c.t, err)
	return res.StatusCode, string(b)
}

func (c *client) get(path string) (int, string) {
	return c.do(http.MethodGet, path, nil)
}

func (c *client) post(path string, form url.Values) (int, string) {
	if form == nil {
		form = url.Values{}
	}
	return c.do(http.MethodPost, path, form)
}

func (c *client) register(username, password string) (int, string) {
	return c.post(SignUpRoute, url.Values{"username": {username}, "password": {password}})
}

func hasID(page, id string) bool {
	return strings.Contains(page, `id="`+id+`"`)
}

func TestHome(t *testing.T) {
	c := newClient(t)

	code, page := c.get("/")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, page, "The Glass Orchard")
	assert.Contains(t, page, "Lantern Street")
	assert.True(t, hasID(page, templates.IDSearchForm))

	_, page = c.get("/?q=" + url.QueryEscape("lantern"))
	assert.Contains(t, page, "Lantern Street")
	assert.NotContains(t, page, "The Glass Orchard")

	_, page = c.get("/?q=zzz")
	assert.True(t, hasID(page, templates.IDEmptyList))
}

func TestRegisterAndLogin(t *testing.T) {
	c := newClient(t)

	code, page := c.register("ana", "secret")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, page, "Welcome, ana.")
	assert.True(t, hasID(page, templates.IDMembershipStatus))
	assert.Contains(t, page, "Free member")

	code, page = c.register("ana", "other")
	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, page, "That username is already taken.")

	code, page = c.register(" ", "x")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, page, "Please fill in every field.")

	_, page = c.post(LogoutRoute, nil)
	assert.False(t, hasID(page, templates.IDMembershipStatus))

	code, page = c.post(LoginRoute, url.Values{"username": {"ana"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Contains(t, page, "Wrong username or password.")

	code, page = c.post(LoginRoute, url.Values{"username": {"ana"}, "password": {"secret"}, "prev": {"/novels/1"}})
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, page, "Welcome back, ana.")
	assert.True(t, hasID(page, templates.IDNovelTitle))
}

func TestLoginIgnoresForeignRedirect(t *testing.T) {
	c := newClient(t)
	c.register("ana", "secret")

	for _, prev := range []string{"//evil.example", "/\t/evil.example", "/\\evil.example"} {
		code, page := c.post(LoginRoute, url.Values{"username": {"ana"}, "password": {"secret"}, "prev": {prev}})
		assert.Equal(t, http.StatusOK, code, prev)
		assert.True(t, hasID(page, templates.IDNovelList), prev)
	}
}

func TestPremiumChapter(t *testing.T) {
	c := newClient(t)
	const path = "/novels/1/chapters/3"

	_, page := c.get(path)
	assert.True(t, hasID(page, templates.IDUpgradePrompt))
	assert.NotContains(t, page, "The harvest spoke.")

	c.register("ana", "secret")
	_, page = c.get(path)
	assert.True(t, hasID(page, templates.IDUpgradePrompt))
	assert.False(t, hasID(page, templates.IDMarkRead))

	_, page = c.do(http.MethodPost, UpgradeRoute, url.Values{"prev": {path}})
	assert.Contains(t, page, "You are now a premium member.")
	assert.Contains(t, page, "Premium member")
	assert.Contains(t, page, "The harvest spoke.")
	assert.True(t, hasID(page, templates.IDMarkRead))
	assert.False(t, hasID(page, templates.IDUpgradeButton))
}

func TestMarkRead(t *testing.T) {
	c := newClient(t)

	code, page := c.post("/novels/1/chapters/1/read", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, page, "You must be logged in to do that.")
	assert.True(t, hasID(page, templates.IDLoginForm))

	c.register("ana", "secret")
	_, page = c.post("/novels/1/chapters/1/read", nil)
	assert.Contains(t, page, "disabled>Read</button>")

	c.post("/novels/1/chapters/1/read", nil)
	_, page = c.get("/novels/1")
	assert.Contains(t, page, "1 of 3 chapters read")
	assert.True(t, hasID(page, templates.IDContinueReading))
}

func TestComments(t *testing.T) {
	c := newClient(t)
	const path = "/novels/1/chapters/1"

	_, page := c.get(path)
	assert.True(t, hasID(page, templates.IDNoComments))
	assert.False(t, hasID(page, templates.IDCommentForm))

	_, page = c.post(path+"/comments", url.Values{"content": {"hi"}})
	assert.True(t, hasID(page, templates.IDLoginForm))

	c.register("ana", "secret")
	_, page = c.post(path+"/comments", url.Values{"content": {"   "}})
	assert.Contains(t, page, "A comment cannot be empty.")
	assert.True(t, hasID(page, templates.IDNoComments))

	_, page = c.post(path+"/comments", url.Values{"content": {"<b>loved it</b>"}})
	assert.False(t, hasID(page, templates.IDNoComments))
	assert.Contains(t, page, "&lt;b&gt;loved it&lt;/b&gt;")
	assert.Contains(t, page, "2025-10-01 12:30 UTC")

	code, page := c.get(path + "/comments")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, page, "&lt;b&gt;loved it&lt;/b&gt;")
	assert.True(t, hasID(page, templates.IDCommentForm))
}

func TestNotFound(t *testing.T) {
	c := newClient(t)

	for _, path := range []string{"/novels/missing", "/novels/1/chapters/99", "/novels/1/chapters/99/comments", "/nowhere"} {
		t.Run(path, func(t *testing.T) {
			code, page := c.get(path)
			assert.Equal(t, http.StatusNotFound, code)
			assert.Contains(t, page, "Not found")
		})
	}
}

func TestStatic(t *testing.T) {
	c := newClient(t)

	code, _ := c.get("/static/style.css")
	assert.Equal(t, http.StatusOK, code)

	code, _ = c.get("/static/missing.css")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestLocalPath(t *testing.T) {
	cases := map[string]string{
		"":                 "/",
		"/novels/1":        "/novels/1",
		"//evil.example":   "/",
		"/\\evil.example":  "/",
		"https://evil.com": "/",
		"novels":           "/",
		"/\t/evil.example": "/",
		"/\n/evil.example": "/",
		"/\r//evil":        "/",
		"/novels/1\x7f":    "/",
		"/novels/1?q=a#c":  "/novels/1?q=a#c",
	}
	for in, expected := range cases {
		assert.Equal(t, expected, localPath(in), "localPath(%q)", in)
	}
}

func TestGetCode(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("%w: no such novel", service.ErrNotFound), http.StatusNotFound},
		{service.ErrInvalidInput, http.StatusBadRequest},
		{service.ErrConflict, http.StatusConflict},
		{service.ErrUnauthenticated, http.StatusUnauthorized},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.code, GetCode(c.err), c.err.Error())
	}
}
