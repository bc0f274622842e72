// Package scopehttp gives every HTTP request its own child scope of a root
// di.Container.
//
// Request scopes fall back to the root for shared services and hold
// request-local bindings that disappear with the request:
//
//	root := di.New()
//	r := chi.NewRouter()
//	r.Use(scopehttp.Middleware(root, scopehttp.RouteParams("params")))
//	r.Get("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
//		params := di.MustGetAs[map[string]string](scopehttp.FromRequest(req), "params")
//		_, _ = w.Write([]byte(params["id"]))
//	})
package scopehttp

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sghaida/lazyscope/di"
)

// RequestKey is the key the incoming *http.Request is bound to in every
// request scope.
const RequestKey = "request"

type ctxKey struct{}

// Seeder adds request-local bindings to a fresh request scope.
type Seeder func(r *http.Request, scope *di.Container) error

// Middleware extends root for each request, binds the request under
// RequestKey, runs the seeders in order and stores the scope in the request
// context. A seeder failure answers 500 without calling next.
func Middleware(root *di.Container, seeders ...Seeder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope := root.Extend()
			if _, err := scope.Constant(RequestKey, r); err != nil {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			for _, seed := range seeders {
				if seed == nil {
					continue
				}
				if err := seed(r, scope); err != nil {
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
			}
			next.ServeHTTP(w, r.WithContext(WithScope(r.Context(), scope)))
		})
	}
}

// WithScope returns a copy of ctx carrying scope.
func WithScope(ctx context.Context, scope *di.Container) context.Context {
	return context.WithValue(ctx, ctxKey{}, scope)
}

// FromContext returns the request scope stored in ctx.
func FromContext(ctx context.Context) (*di.Container, bool) {
	scope, ok := ctx.Value(ctxKey{}).(*di.Container)
	return scope, ok && scope != nil
}

// FromRequest returns the request scope of r, or nil outside Middleware.
func FromRequest(r *http.Request) *di.Container {
	scope, _ := FromContext(r.Context())
	return scope
}

// Constant returns a Seeder binding key to value in every request scope.
func Constant(key string, value any) Seeder {
	return func(_ *http.Request, scope *di.Container) error {
		_, err := scope.Constant(key, value)
		return err
	}
}

// RouteParams returns a Seeder binding key to a provider that yields the chi
// URL parameters of the request as map[string]string.
//
// The parameters are read on first access, so the seeder works from mux-level
// middleware that runs before chi has matched the route. Requests not routed
// by chi yield an empty map.
func RouteParams(key string) Seeder {
	return func(r *http.Request, scope *di.Container) error {
		rctx := chi.RouteContext(r.Context())
		return scope.Provider(key, func(*di.Deps) (any, error) {
			params := map[string]string{}
			if rctx == nil {
				return params, nil
			}
			for i, name := range rctx.URLParams.Keys {
				if i < len(rctx.URLParams.Values) {
					params[name] = rctx.URLParams.Values[i]
				}
			}
			return params, nil
		})
	}
}
