package validation

import (
	"reflect"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator shared by all handlers. Field names in
// validation errors use the wire name (json or form tag), so error responses
// speak the same field language as the requests.
// Every rule on the request types is declarative (struct tags); keep
// cross-field rules here as struct-level validations if any appear.
func New() *validatorv10.Validate {
	v := validatorv10.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
	return v
}
