package shared

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Validate is the shared validator instance used for request structs.
var Validate = validator.New()

// DecodeJSON decodes the request body into the given struct.
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// ValidateRequest validates the given struct using its own Validate method
// when present, or the shared struct validator otherwise.
func ValidateRequest(v interface{}) error {
	if validatable, ok := v.(interface{ Validate() error }); ok {
		return validatable.Validate()
	}
	return Validate.Struct(v)
}
