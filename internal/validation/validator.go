package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"nextglide-backend/internal/sections"
)

// Form field types offered by the service inquiry builder and the job
// application form builder.
var (
	InquiryFieldTypes     = []string{"text", "textarea", "dropdown", "checkbox"}
	ApplicationFieldTypes = []string{"text", "textarea", "number", "email", "url"}
)

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New()

	// Report JSON names in validation details.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	phoneRegex := regexp.MustCompile(`^\+?[0-9 ()-]{7,20}$`)
	v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		return phoneRegex.MatchString(value)
	})

	v.RegisterValidation("layout", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "" || sections.IsValidLayout(value)
	})

	v.RegisterValidation("fieldtype", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "" || sections.IsValidFieldType(value)
	})

	v.RegisterValidation("inquiryfieldtype", oneOfStrings(InquiryFieldTypes))
	v.RegisterValidation("formfieldtype", oneOfStrings(ApplicationFieldTypes))

	return &Validator{v: v}
}

func oneOfStrings(allowed []string) validator.Func {
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		set[a] = struct{}{}
	}
	return func(fl validator.FieldLevel) bool {
		_, ok := set[fl.Field().String()]
		return ok
	}
}

func (v *Validator) Struct(s interface{}) error {
	return v.v.Struct(s)
}

func (v *Validator) ValidationErrors(err error) validator.ValidationErrors {
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
