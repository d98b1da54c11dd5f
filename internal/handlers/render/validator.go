package render

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Bank branch codes as issued by the RBI: four letters, a zero, six alphanumerics
var ifscPattern = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)

func configureValidator(validate *validator.Validate) {
	_ = validate.RegisterValidation("ifsc", validateIFSC)
	validate.RegisterTagNameFunc(useJSONTagNames)
}

func useJSONTagNames(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	// skip if tag key says it should be ignored
	if name == "-" {
		return ""
	}
	return name
}

func validateIFSC(fl validator.FieldLevel) bool {
	return ifscPattern.MatchString(fl.Field().String())
}
