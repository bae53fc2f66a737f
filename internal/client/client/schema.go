package client

import (
	"embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var (
	meSchema     = mustLoadSchema("schemas/me.schema.json")
	authSchema   = mustLoadSchema("schemas/auth.schema.json")
	statusSchema = mustLoadSchema("schemas/status.schema.json")
)

func mustLoadSchema(name string) *gojsonschema.Schema {
	b, err := schemaFS.ReadFile(name)
	if err != nil {
		panic(err)
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(b))
	if err != nil {
		panic(fmt.Sprintf("schema %s: %v", name, err))
	}
	return s
}

// validate checks body against schema and reports every violation in one
// ErrMalformedResponse.
func validate(schema *gojsonschema.Schema, body []byte) error {
	res, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if res.Valid() {
		return nil
	}
	details := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		details = append(details, e.String())
	}
	return fmt.Errorf("%w: %s", ErrMalformedResponse, strings.Join(details, "; "))
}
