package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"

	"github.com/finlens/finlens-backend/docs"
)

// OpenAPI3Spec is the subset of an OpenAPI 3.0 document we emit
type OpenAPI3Spec struct {
	OpenAPI    string                 `json:"openapi"`
	Info       map[string]interface{} `json:"info"`
	Servers    []Server               `json:"servers"`
	Paths      map[string]interface{} `json:"paths"`
	Components map[string]interface{} `json:"components,omitempty"`
}

// Server is an OpenAPI 3.0 server entry
type Server struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

// rewriteRef moves a schema reference from the 2.0 to the 3.0 namespace
func rewriteRef(ref string) string {
	return strings.Replace(ref, "#/definitions/", "#/components/schemas/", 1)
}

// upgradeNode walks a decoded swagger 2.0 fragment, rewriting $ref targets
// and lifting parameter type fields into schema objects
func upgradeNode(node interface{}) interface{} {
	switch v := node.(type) {
	case map[string]interface{}:
		// Parameter objects carry both "in" and "name"
		if _, hasIn := v["in"]; hasIn {
			if _, hasName := v["name"]; hasName {
				return upgradeParameter(v)
			}
		}

		out := make(map[string]interface{}, len(v))
		for key, value := range v {
			if key == "$ref" {
				if ref, ok := value.(string); ok {
					out[key] = rewriteRef(ref)
					continue
				}
			}
			out[key] = upgradeNode(value)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = upgradeNode(item)
		}
		return out
	default:
		return node
	}
}

// upgradeParameter converts a swagger 2.0 parameter, which keeps type fields
// inline, to the 3.0 form where they live under "schema". Body parameters
// pass through untouched; 3.0 models those as requestBody.
func upgradeParameter(param map[string]interface{}) map[string]interface{} {
	if param["in"] == "body" {
		return param
	}

	out := make(map[string]interface{})
	for _, field := range []string{"name", "in", "description", "required"} {
		if val, ok := param[field]; ok {
			out[field] = val
		}
	}

	schema := make(map[string]interface{})
	for _, field := range []string{"type", "format", "enum", "default", "minimum", "maximum", "items"} {
		val, ok := param[field]
		if !ok {
			continue
		}
		if field == "items" {
			val = upgradeNode(val)
		}
		schema[field] = val
	}
	if len(schema) > 0 {
		out["schema"] = schema
	}

	return out
}

// ServeOpenAPI3Spec serves the committed swagger 2.0 doc upgraded to OpenAPI
// 3.0, with server entries for each deployment
func ServeOpenAPI3Spec(c echo.Context) error {
	doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to read swagger doc"})
	}

	var swagger2 map[string]interface{}
	if err := json.Unmarshal([]byte(doc), &swagger2); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to parse swagger doc"})
	}

	info, _ := swagger2["info"].(map[string]interface{})
	paths, _ := swagger2["paths"].(map[string]interface{})

	components := make(map[string]interface{})
	if secDefs, ok := swagger2["securityDefinitions"].(map[string]interface{}); ok {
		components["securitySchemes"] = secDefs
	}
	if definitions, ok := swagger2["definitions"].(map[string]interface{}); ok {
		components["schemas"] = upgradeNode(definitions)
	}

	return c.JSON(http.StatusOK, OpenAPI3Spec{
		OpenAPI: "3.0.3",
		Info:    info,
		Servers: []Server{
			{URL: "http://localhost:8080/api/v1", Description: "Local Development"},
			{URL: "https://api.finlens.app/api/v1", Description: "Production"},
		},
		Paths:      upgradeNode(paths).(map[string]interface{}),
		Components: components,
	})
}
