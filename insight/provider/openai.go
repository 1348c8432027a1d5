package provider

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
)

// GenerateSchema reflects T into a JSON schema map suitable for a Responses API json_schema format.
// Required keys come from `jsonschema:"required"` tags, so optional fields stay optional.
func GenerateSchema[T any]() map[string]interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	schema := reflector.Reflect(v)
	schemaObj, err := schemaToMap(schema)
	if err != nil {
		panic(err)
	}
	delete(schemaObj, "$schema")
	delete(schemaObj, "$id")
	closeObjects(schemaObj)
	return schemaObj
}

func schemaToMap(schema *jsonschema.Schema) (map[string]interface{}, error) {
	b, err := schema.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

const (
	propertiesKey           = "properties"
	additionalPropertiesKey = "additionalProperties"
	typeKey                 = "type"
	itemsKey                = "items"
)

// closeObjects forbids extra keys on every object in the schema, leaving the required lists untouched.
func closeObjects(schema map[string]interface{}) {
	if schemaType, ok := schema[typeKey].(string); ok && schemaType == "object" {
		schema[additionalPropertiesKey] = false
	}

	if properties, ok := schema[propertiesKey].(map[string]interface{}); ok {
		for _, prop := range properties {
			if propMap, ok := prop.(map[string]interface{}); ok {
				closeObjects(propMap)
			}
		}
	}

	if items, ok := schema[itemsKey].(map[string]interface{}); ok {
		closeObjects(items)
	}
}

// StatusCode returns the HTTP status of a provider API error, or 0 when err carries none.
func StatusCode(err error) int {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsAuthError reports whether err means the request was rejected for its credential:
// a 400/401/403 status or a provider message saying the key is invalid.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	switch StatusCode(err) {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "api key not valid") ||
		strings.Contains(errStr, "invalid_api_key") ||
		strings.Contains(errStr, "incorrect api key")
}

// IsRateLimitError reports a 429 or a rate-limit message. Used for log context only; nothing is retried.
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	if StatusCode(err) == http.StatusTooManyRequests {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests")
}
