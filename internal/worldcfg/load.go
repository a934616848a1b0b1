package worldcfg

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/samber/oops"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource("world.schema.json", bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = c.Compile("world.schema.json")
	})
	return schema, schemaErr
}

// Load reads an authoring configuration from a .json, .yaml or .yml file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.Code(CodeInvalidConfig).With("path", path).Wrap(err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yamlToJSON(data)
		if err != nil {
			return nil, oops.Code(CodeInvalidConfig).With("path", path).Wrap(err)
		}
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, oops.With("path", path).Wrap(err)
	}
	return cfg, nil
}

// Parse validates JSON-encoded configuration against the world schema and
// decodes it.
func Parse(data []byte) (*Config, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, oops.Code(CodeInvalidConfig).Wrap(err)
	}
	return &cfg, nil
}

// Validate checks JSON-encoded configuration against the world schema.
func Validate(data []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return oops.Code(CodeInvalidConfig).Wrapf(err, "compile world schema")
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return oops.Code(CodeInvalidConfig).Wrap(err)
	}
	if err := s.Validate(doc); err != nil {
		return oops.Code(CodeSchemaViolation).Wrap(err)
	}
	return nil
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}
