package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestReadDoc(t *testing.T) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)
	require.True(t, json.Valid([]byte(doc)))

	var openapi struct {
		Swagger string                    `json:"swagger"`
		Paths   map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &openapi))
	assert.Equal(t, "2.0", openapi.Swagger)
	assert.Contains(t, openapi.Paths, "/api/approvals/{kind}/{id}")
	assert.Contains(t, openapi.Paths["/api/approvals/{kind}/{id}"], "post")
}
