package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	gqlgenconfig "github.com/99designs/gqlgen/codegen/config"
	"github.com/gobwas/glob"
	"github.com/goccy/go-yaml"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/Yamashou/gqlbuilder/codegen"
	"github.com/Yamashou/gqlbuilder/introspection"
)

var errNoSource = errors.New("neither 'schema' nor 'endpoint' specified. Use schema to load from a local file, use endpoint to load from a remote server (using introspection)")

// Config represents the config file.
type Config struct {
	// Schema lists introspection JSON files or SDL files; globs are expanded.
	Schema   gqlgenconfig.StringList    `yaml:"schema,omitempty"`
	Endpoint *EndPointConfig            `yaml:"endpoint,omitempty"`
	Output   gqlgenconfig.PackageConfig `yaml:"output"`
	// Runtime is the import path of the querybuilder package used by the bindings.
	Runtime     string            `yaml:"runtime,omitempty"`
	Scalars     map[string]string `yaml:"scalars,omitempty"`
	QualifyArgs bool              `yaml:"qualify_args,omitempty"`

	Introspection *introspection.Schema `yaml:"-"`
}

// EndPointConfig are the allowed options for the 'endpoint' config.
type EndPointConfig struct {
	Headers http.Header  `yaml:"headers,omitempty"`
	URL     string       `yaml:"url"`
	Client  *http.Client `yaml:"-"`
}

// LoadConfig loads and parses the config file.
func LoadConfig(configFilename string) (*Config, error) {
	configContent, err := os.ReadFile(configFilename)
	if err != nil {
		return nil, fmt.Errorf("unable to read config: %w", err)
	}

	var c Config

	yamlDecoder := yaml.NewDecoder(bytes.NewReader([]byte(os.ExpandEnv(string(configContent)))), yaml.DisallowUnknownField())
	if err := yamlDecoder.Decode(&c); err != nil {
		return nil, fmt.Errorf("unable to parse config: %w", err)
	}

	// validation
	if c.Schema != nil && c.Endpoint != nil {
		return nil, errors.New("'schema' and 'endpoint' both specified. Use schema to load from a local file, use endpoint to load from a remote server (using introspection)")
	}

	if c.Schema == nil && c.Endpoint == nil {
		return nil, errNoSource
	}

	if c.Endpoint != nil && c.Endpoint.URL == "" {
		return nil, errors.New("endpoint: url must be specified")
	}

	if err := c.Output.Check(); err != nil {
		return nil, fmt.Errorf("output: %w", err)
	}

	if c.Schema != nil {
		schemaFilename, err := schemaFilenames(c.Schema)
		if err != nil {
			return nil, err
		}
		c.Schema = schemaFilename
	}

	return &c, nil
}

// FindConfigFile searches dir and its parents for the first of names.
func FindConfigFile(dir string, names []string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("unable to resolve %s: %w", dir, err)
	}

	for {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("unable to find config file, looked for %s", strings.Join(names, ", "))
		}
		dir = parent
	}
}

// LoadSchema reads the schema from the configured files or endpoint into
// c.Introspection.
func (c *Config) LoadSchema(ctx context.Context) error {
	switch {
	case c.Schema != nil:
		schema, err := loadSchemaFiles(c.Schema)
		if err != nil {
			return fmt.Errorf("load local schema failed: %w", err)
		}
		c.Introspection = schema
	case c.Endpoint != nil:
		httpClient := c.Endpoint.Client
		if httpClient == nil {
			httpClient = http.DefaultClient
		}
		schema, err := introspectionSchema(ctx, httpClient, c.Endpoint.URL, c.Endpoint.Headers)
		if err != nil {
			return fmt.Errorf("introspect schema failed: %w", err)
		}
		c.Introspection = schema
	default:
		return errNoSource
	}

	return nil
}

// GeneratorOptions returns the code generation settings of the config.
func (c *Config) GeneratorOptions() codegen.Options {
	return codegen.Options{
		Package:     c.Output.Package,
		Filename:    filepath.Base(c.Output.Filename),
		RuntimePath: c.Runtime,
		Scalars:     c.Scalars,
		QualifyArgs: c.QualifyArgs,
	}
}

// schemaFilenames expands the schema patterns. A pattern containing ** is
// matched against every file below the directory preceding it.
func schemaFilenames(patterns gqlgenconfig.StringList) (gqlgenconfig.StringList, error) {
	var files gqlgenconfig.StringList
	for _, pattern := range patterns {
		var matches []string
		if strings.Contains(pattern, "**") {
			root, _, _ := strings.Cut(pattern, "**")
			g, err := glob.Compile(filepath.ToSlash(pattern), '/')
			if err != nil {
				return nil, fmt.Errorf("failed to compile schema pattern %s: %w", pattern, err)
			}
			if err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() && g.Match(filepath.ToSlash(path)) {
					matches = append(matches, path)
				}
				return nil
			}); err != nil {
				return nil, fmt.Errorf("failed to walk schema at root %s: %w", root, err)
			}
		} else {
			var err error
			matches, err = filepath.Glob(pattern)
			if err != nil {
				return nil, fmt.Errorf("failed to glob schema filename %s: %w", pattern, err)
			}
		}

		for _, m := range matches {
			if !slices.Contains(files, m) {
				files = append(files, m)
			}
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no schema files match %s", strings.Join(patterns, ", "))
	}

	return files, nil
}

// loadSchemaFiles reads one introspection JSON file or any number of SDL files.
func loadSchemaFiles(filenames []string) (*introspection.Schema, error) {
	var jsonFiles, sdlFiles []string
	for _, filename := range filenames {
		if strings.EqualFold(filepath.Ext(filename), ".json") {
			jsonFiles = append(jsonFiles, filename)
		} else {
			sdlFiles = append(sdlFiles, filename)
		}
	}

	switch {
	case len(jsonFiles) > 0 && len(sdlFiles) > 0:
		return nil, fmt.Errorf("cannot mix introspection results (%s) with SDL files (%s)", strings.Join(jsonFiles, ", "), strings.Join(sdlFiles, ", "))
	case len(jsonFiles) > 1:
		return nil, fmt.Errorf("only one introspection result can be loaded, got %s", strings.Join(jsonFiles, ", "))
	case len(jsonFiles) == 1:
		content, err := os.ReadFile(jsonFiles[0])
		if err != nil {
			return nil, fmt.Errorf("unable to open schema: %w", err)
		}
		schema, err := introspection.Parse(content)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", jsonFiles[0], err)
		}
		return schema, nil
	}

	sources := make([]*ast.Source, 0, len(sdlFiles))
	for _, filename := range sdlFiles {
		content, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("unable to open schema: %w", err)
		}
		sources = append(sources, &ast.Source{Name: filename, Input: string(content)})
	}

	schema, err := gqlparser.LoadSchema(sources...)
	if err != nil {
		return nil, err
	}

	return introspection.FromAST(schema), nil
}
