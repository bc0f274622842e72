package scopehttp_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sghaida/lazyscope/di"
	"github.com/sghaida/lazyscope/scopehttp"
)

type counter struct{ hits atomic.Int32 }

func newRoot(t *testing.T) (*di.Container, *counter) {
	t.Helper()

	root := di.New()
	cnt := &counter{}
	require.NoError(t, root.Provider("counter", func(*di.Deps) (any, error) { return cnt, nil }))
	return root, cnt
}

// TestMiddleware_RequestScopePerRequest verifies each request gets its own scope over the shared root.
func TestMiddleware_RequestScopePerRequest(t *testing.T) {
	t.Parallel()

	root, cnt := newRoot(t)
	var scopes []*di.Container

	r := chi.NewRouter()
	r.Use(scopehttp.Middleware(root))
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		scope := scopehttp.FromRequest(req)
		require.NotNil(t, scope)
		scopes = append(scopes, scope)

		c := di.MustGetAs[*counter](scope, "counter")
		c.hits.Add(1)

		got := di.MustGetAs[*http.Request](scope, scopehttp.RequestKey)
		assert.Equal(t, req.URL.Path, got.URL.Path)

		_, err := scope.Constant("local", req.URL.RawQuery)
		require.NoError(t, err)
		w.WriteHeader(http.StatusNoContent)
	})

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/?n=%d", i), nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}

	require.Len(t, scopes, 2)
	assert.NotSame(t, scopes[0], scopes[1])
	assert.Same(t, root, scopes[0].Parent())
	assert.Equal(t, int32(2), cnt.hits.Load())
	assert.False(t, root.Has("local"))
	assert.False(t, root.Has(scopehttp.RequestKey))
}

// TestRouteParams_FromMuxMiddleware verifies route parameters are read lazily after chi routes the request.
func TestRouteParams_FromMuxMiddleware(t *testing.T) {
	t.Parallel()

	root, _ := newRoot(t)

	r := chi.NewRouter()
	r.Use(scopehttp.Middleware(root,
		scopehttp.RouteParams("params"),
		scopehttp.Constant("service", "users"),
		nil,
	))
	r.Get("/users/{id}/posts/{post}", func(w http.ResponseWriter, req *http.Request) {
		scope := scopehttp.FromRequest(req)
		params := di.MustGetAs[map[string]string](scope, "params")
		svc := di.MustGetAs[string](scope, "service")
		_, _ = fmt.Fprintf(w, "%s:%s:%s", svc, params["id"], params["post"])
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/42/posts/7", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "users:42:7", rec.Body.String())
}

// TestRouteParams_WithoutChi verifies plain net/http requests get an empty map.
func TestRouteParams_WithoutChi(t *testing.T) {
	t.Parallel()

	root, _ := newRoot(t)
	var params map[string]string

	h := scopehttp.Middleware(root, scopehttp.RouteParams("params"))(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		params = di.MustGetAs[map[string]string](scopehttp.FromRequest(req), "params")
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotNil(t, params)
	assert.Empty(t, params)
}

// TestMiddleware_SeederFailure verifies a failing seeder answers 500 and skips the handler.
func TestMiddleware_SeederFailure(t *testing.T) {
	t.Parallel()

	root, _ := newRoot(t)
	called := false

	failing := func(*http.Request, *di.Container) error { return errors.New("seed failed") }
	h := scopehttp.Middleware(root, failing)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, called)
}

// TestMiddleware_DuplicateSeedIsFailure verifies seeding the same key twice is reported as a failure.
func TestMiddleware_DuplicateSeedIsFailure(t *testing.T) {
	t.Parallel()

	root, _ := newRoot(t)
	h := scopehttp.Middleware(root,
		scopehttp.Constant("k", 1),
		scopehttp.Constant("k", 2),
	)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

// TestFromContext_Missing verifies lookups outside the middleware report absence.
func TestFromContext_Missing(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	scope, ok := scopehttp.FromContext(req.Context())
	assert.False(t, ok)
	assert.Nil(t, scope)
	assert.Nil(t, scopehttp.FromRequest(req))

	root := di.New()
	ctx := scopehttp.WithScope(req.Context(), root)
	scope, ok = scopehttp.FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, root, scope)
}
