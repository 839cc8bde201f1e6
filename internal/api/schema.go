package api

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const (
	schemaEntry  = "entry.json"
	schemaPrice  = "price.json"
	schemaReport = "report.json"
)

var (
	schemasOnce sync.Once
	schemas     map[string]*jsonschema.Schema
	schemasErr  error
)

func loadSchemas() (map[string]*jsonschema.Schema, error) {
	schemasOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		names := []string{schemaEntry, schemaPrice, schemaReport}
		for _, name := range names {
			b, err := schemaFS.ReadFile("schemas/" + name)
			if err != nil {
				schemasErr = fmt.Errorf("read schema %s: %w", name, err)
				return
			}
			if err := compiler.AddResource(name, bytes.NewReader(b)); err != nil {
				schemasErr = fmt.Errorf("add schema %s: %w", name, err)
				return
			}
		}
		out := make(map[string]*jsonschema.Schema, len(names))
		for _, name := range names {
			s, err := compiler.Compile(name)
			if err != nil {
				schemasErr = fmt.Errorf("compile schema %s: %w", name, err)
				return
			}
			out[name] = s
		}
		schemas = out
	})
	return schemas, schemasErr
}

// decodeObject parses body as a JSON object and validates it against the named
// schema. An empty body decodes to an empty object.
func decodeObject(name string, body []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, errInvalidJSON
	}
	all, err := loadSchemas()
	if err != nil {
		return nil, err
	}
	if err := all[name].Validate(v); err != nil {
		return nil, schemaError(err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, errInvalidJSON
	}
	return m, nil
}
