// Command lazyc resolves a YAML dependency graph with the lazyscope container.
//
// It is a quick way to check a wiring graph outside a program: which keys
// resolve, what they resolve to, and where a dependency cycle closes.
//
// Graph format (graph.yaml)
//
//	constants:
//	  host: localhost
//	  port: 5432
//	providers:
//	  dsn:
//	    format: "postgres://%v:%v"
//	    args: [host, port]
//	  url:
//	    ref: dsn
//	    eager: true
//
// Each provider needs exactly one of:
//
//   - ref: the provider resolves to the value of another key
//   - format + args: fmt.Sprintf(format, <resolved args>...)
//
// eager: true forces resolution right after loading, even when the key is not
// requested.
//
// Usage
//
//	lazyc -graph graph.yaml [-constants consts.yaml] [-env .env] [-get dsn,url] [-v]
//
// Constants from -env and -constants are bound on a root container; the graph
// is bound on a child of it, so graph keys may shadow them. Output is one
// "key = value" line per requested key. A cycle is reported with its path:
//
//	lazyc: a: di: cyclic dependency a -> b -> a
//
// Exit codes: 0 success, 1 load or resolution failure, 2 usage error.
package main
