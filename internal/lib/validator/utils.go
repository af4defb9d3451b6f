package validator

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	govalidator "github.com/go-playground/validator/v10"
)

func camelToSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func getFieldName(obj any, origFieldName string) (fieldName string) {
	t := reflect.TypeOf(obj)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	field, found := t.FieldByName(origFieldName)
	if !found {
		panic(fmt.Sprintf("Field %s not found in type %s", origFieldName, t.Name()))
	}
	fieldName = camelToSnake(origFieldName)
	if tag := field.Tag.Get("json"); tag != "" && tag != "-" {
		if jsonName := strings.Split(tag, ",")[0]; jsonName != "" {
			fieldName = jsonName
		}
	}
	return
}

func ProcessValidationErrors(obj any, errs govalidator.ValidationErrors) map[string]string {
	processedErrors := make(map[string]string)
	for _, e := range errs {
		processedErrors[getFieldName(obj, e.StructField())] = GetErrorMsgForField(obj, e)
	}
	return processedErrors
}

// ValidateStruct returns nil when obj is valid. Only top-level fields are
// reported, nested structs must be validated separately.
func ValidateStruct(validator *govalidator.Validate, obj any) (validationErrs map[string]string) {
	if err := validator.Struct(obj); err != nil {
		validationErrs = ProcessValidationErrors(obj, err.(govalidator.ValidationErrors))
	}
	return
}

func GetErrorMsgForField(obj any, err govalidator.FieldError) (errorMsg string) {
	t := reflect.TypeOf(obj)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	field, found := t.FieldByName(err.StructField())
	if !found {
		panic(fmt.Sprintf("Field %s not found in type %s", err.StructField(), t.Name()))
	}
	errorMsg = field.Tag.Get("errorMsg")
	if errorMsg == "" {
		switch err.Tag() {
		case "required":
			errorMsg = "This field is required"
		case "notblank":
			errorMsg = "This field must not be blank"
		case "max":
			errorMsg = fmt.Sprintf("The maximum value is %s", err.Param())
		case "min":
			errorMsg = fmt.Sprintf("The minimum value is %s", err.Param())
		case "gte":
			errorMsg = fmt.Sprintf("Value should be greater than or equal to %s", err.Param())
		case "lte":
			errorMsg = fmt.Sprintf("Value should be less than or equal to %s", err.Param())
		case "lt":
			errorMsg = fmt.Sprintf("Value should be less than %s", err.Param())
		case "gt":
			errorMsg = fmt.Sprintf("Value should be greater than %s", err.Param())
		case "eqfield", "eq":
			errorMsg = fmt.Sprintf("Value should be equal to %s", err.Param())
		case "nefield", "ne":
			errorMsg = fmt.Sprintf("Value should not be equal to %s", err.Param())
		case "oneof":
			errorMsg = fmt.Sprintf("Value should be one of %s", err.Param())
		case "len":
			errorMsg = fmt.Sprintf("Length should be equal to %s", err.Param())
		case "email":
			errorMsg = "Value must be a valid email address"
		case "alphanum":
			errorMsg = "Value must be alphanumeric"
		default:
			errorMsg = "This field is invalid"
		}
	}
	return
}

// CUSTOM VALIDATORS

// New returns a validator with the custom rules registered.
func New() *govalidator.Validate {
	v := govalidator.New(govalidator.WithRequiredStructEnabled())
	v.RegisterValidation("notblank", ValidateNotBlank)
	return v
}

func ValidateNotBlank(fl govalidator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
