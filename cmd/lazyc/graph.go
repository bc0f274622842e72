package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sghaida/lazyscope/di"
)

// Graph is the input schema consumed by lazyc.
type Graph struct {
	// Constants are bound as-is.
	Constants map[string]any `yaml:"constants"`

	// Providers are bound as lazily resolved factories.
	Providers map[string]ProviderSpec `yaml:"providers"`
}

// ProviderSpec describes one provider. Exactly one of Ref or Format is set.
type ProviderSpec struct {
	// Ref makes the provider an alias: it resolves to the value of another key.
	Ref string `yaml:"ref"`

	// Format is a fmt format string applied to the resolved Args.
	Format string   `yaml:"format"`
	Args   []string `yaml:"args"`

	// Eager forces resolution after the graph is loaded, even if nothing reads it.
	Eager bool `yaml:"eager"`
}

// loadGraph reads and validates a graph file.
func loadGraph(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("graph: read %s: %w", path, err)
	}

	var g Graph
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("graph: parse %s: %w", path, err)
	}
	if err := validateGraph(&g); err != nil {
		return nil, fmt.Errorf("graph: %s: %w", path, err)
	}
	return &g, nil
}

// validateGraph checks the graph is well formed. It does not check that
// referenced keys exist: they may come from constants loaded elsewhere.
func validateGraph(g *Graph) error {
	var problems []string

	for key := range g.Constants {
		if strings.TrimSpace(key) == "" {
			problems = append(problems, "constant with empty key")
		}
	}

	for _, key := range sortedKeys(g.Providers) {
		spec := g.Providers[key]
		switch {
		case strings.TrimSpace(key) == "":
			problems = append(problems, "provider with empty key")
		case spec.Ref != "" && spec.Format != "":
			problems = append(problems, fmt.Sprintf("provider %q: ref and format are exclusive", key))
		case spec.Ref == "" && spec.Format == "":
			problems = append(problems, fmt.Sprintf("provider %q: needs ref or format", key))
		case spec.Ref != "" && len(spec.Args) > 0:
			problems = append(problems, fmt.Sprintf("provider %q: args need format", key))
		}
		if _, dup := g.Constants[key]; dup {
			problems = append(problems, fmt.Sprintf("key %q is both constant and provider", key))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid graph: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Apply binds the graph onto c: constants first, then providers, each in
// sorted key order.
func (g *Graph) Apply(c *di.Container) error {
	for _, key := range sortedKeys(g.Constants) {
		if _, err := c.Constant(key, g.Constants[key]); err != nil {
			return err
		}
	}
	for _, key := range sortedKeys(g.Providers) {
		spec := g.Providers[key]
		register := c.Provider
		if spec.Eager {
			register = c.EagerProvider
		}
		if err := register(key, spec.factory()); err != nil {
			return err
		}
	}
	return nil
}

func (s ProviderSpec) factory() di.Factory {
	if s.Ref != "" {
		ref := s.Ref
		return func(d *di.Deps) (any, error) {
			return lookupRequired(d, ref)
		}
	}

	format, args := s.Format, append([]string(nil), s.Args...)
	return func(d *di.Deps) (any, error) {
		vals := make([]any, 0, len(args))
		for _, arg := range args {
			v, err := lookupRequired(d, arg)
			if err != nil {
				return nil, err
			}
			vals = append(vals, v)
		}
		return fmt.Sprintf(format, vals...), nil
	}
}

// lookupRequired resolves key, treating absence as an error.
func lookupRequired(d *di.Deps, key string) (any, error) {
	v, ok, err := d.Lookup(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, di.MissingDependencyError{Key: key}
	}
	return v, nil
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
