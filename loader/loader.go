// Package loader builds di.MapRegistry constant sets from configuration
// sources, ready for Container.Import.
//
//	reg, err := loader.YAMLFile("config.yaml")
//	if err != nil {
//		return err
//	}
//	env, err := loader.Dotenv(".env")
//	if err != nil {
//		return err
//	}
//	if err := c.Import(reg.Merge(env)); err != nil {
//		return err
//	}
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sghaida/lazyscope/di"
)

// YAML decodes a single YAML mapping from r. Each top-level key becomes a
// registry entry; nested mappings and sequences are kept as map[string]any and
// []any. An empty document yields an empty registry.
func YAML(r io.Reader) (*di.MapRegistry, error) {
	var doc map[string]any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("loader: parse yaml: %w", err)
	}
	return fromMap(doc), nil
}

// YAMLFile reads path and decodes it like YAML.
func YAMLFile(path string) (*di.MapRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", path, err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("loader: parse %s: %w", path, err)
	}
	return fromMap(doc), nil
}

// Dotenv reads dotenv files without touching the process environment. Values
// are strings; when a key appears in several files the last file wins.
// With no files it reads ".env".
func Dotenv(files ...string) (*di.MapRegistry, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	vars, err := godotenv.Read(files...)
	if err != nil {
		return nil, fmt.Errorf("loader: read dotenv %s: %w", strings.Join(files, ","), err)
	}

	reg := di.NewMapRegistry()
	for k, v := range vars {
		reg.Provide(k, v)
	}
	return reg, nil
}

// Environ collects process environment variables whose name starts with
// prefix, with the prefix stripped. An empty prefix takes every variable.
func Environ(prefix string) *di.MapRegistry {
	reg := di.NewMapRegistry()
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(k, prefix) {
			continue
		}
		if name := strings.TrimPrefix(k, prefix); name != "" {
			reg.Provide(name, v)
		}
	}
	return reg
}

func fromMap(doc map[string]any) *di.MapRegistry {
	reg := di.NewMapRegistry()
	for k, v := range doc {
		reg.Provide(k, v)
	}
	return reg
}
