package validator

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"medbridge-api/internal/domain/entity"
	"medbridge-api/pkg/timeutil"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
)

var phonePattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()

	// Report JSON field names so clients can map errors to their payload.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterValidation("phone", validatePhone)
	v.RegisterValidation("trimmedmin", validateTrimmedMin)
	v.RegisterValidation("trimmedmax", validateTrimmedMax)
	v.RegisterValidation("department", validateDepartment)
	v.RegisterValidation("language", validateLanguage)
	v.RegisterValidation("clock", validateClock)

	return &CustomValidator{
		validator: v,
	}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required":
				errors[field] = field + " is required"
			case "email":
				errors[field] = field + " must be a valid email address"
			case "min":
				errors[field] = field + " must be at least " + e.Param() + " characters"
			case "max":
				errors[field] = field + " must be at most " + e.Param() + " characters"
			case "gte":
				errors[field] = field + " must be greater than or equal to " + e.Param()
			case "lte":
				errors[field] = field + " must be less than or equal to " + e.Param()
			case "oneof":
				errors[field] = field + " must be one of: " + e.Param()
			case "phone":
				errors[field] = "Phone number must start with + and contain 9 to 15 digits, e.g. +14155552671"
			case "trimmedmin":
				errors[field] = field + " must contain at least " + e.Param() + " characters, please describe it in more detail"
			case "trimmedmax":
				errors[field] = field + " must contain at most " + e.Param() + " characters"
			case "department":
				errors[field] = field + " must be a known department"
			case "language":
				errors[field] = field + " must be one of: en, zh-cn, zh-tw"
			case "clock":
				errors[field] = field + " must be a time in HH:MM format"
			default:
				errors[field] = field + " is invalid"
			}
		}
	}

	return errors
}

// validatePhone requires an international number: leading '+', 9 to 15
// digits, and a number libphonenumber considers possible.
func validatePhone(fl validator.FieldLevel) bool {
	phone := fl.Field().String()
	if phone == "" {
		return true
	}
	if !strings.HasPrefix(phone, "+") || !phonePattern.MatchString(phone) {
		return false
	}
	num, err := phonenumbers.Parse(phone, "")
	if err != nil {
		return false
	}
	return phonenumbers.IsPossibleNumber(num)
}

func validateTrimmedMin(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= n
}

func validateTrimmedMax(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) <= n
}

func validateDepartment(fl validator.FieldLevel) bool {
	return entity.Department(fl.Field().String()).IsValid()
}

func validateLanguage(fl validator.FieldLevel) bool {
	return entity.Language(fl.Field().String()).IsValid()
}

func validateClock(fl validator.FieldLevel) bool {
	_, err := timeutil.ParseClock(fl.Field().String())
	return err == nil
}
