// Package lazyscope provides a hierarchical, lazy dependency container for Go.
//
// The container lives in the di subpackage. This package adds the two
// one-line entry points most programs start from:
//
//   - Run: build a root container and invoke a function in a scope of it.
//   - RunAsync: the same, deferred, with the outcome delivered as a di.Future.
//
// The rest of the repository is organised as:
//   - di: Container, Deps surface, typed errors, Scheduler/Queue, Future
//   - loader: constant sets from YAML documents and dotenv files
//   - scopehttp: per-request child scopes for net/http and chi
//   - cmd/lazyc: resolve a YAML dependency graph from the command line
//   - examples/httpapp: a runnable chi server wired through request scopes
//
// Import
//
//	"github.com/sghaida/lazyscope"
package lazyscope
