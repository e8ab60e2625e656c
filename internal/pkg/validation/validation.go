// Package validation wraps go-playground/validator with the custom tags and
// human-readable messages the API reports.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/BiharaCD/beverage-OS/internal/pkg/apperr"
	"github.com/BiharaCD/beverage-OS/internal/pkg/calendar"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/ttacon/libphonenumber"
)

// Messages maps "<GoField>.<tag>" to the message reported when that rule fails.
type Messages map[string]string

type Validator struct {
	v      *validator.Validate
	region string
}

// New builds a validator. region is the default phone region (ISO 3166 alpha-2) for
// numbers written without a country prefix.
func New(region string) *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	// Decimals are checked through their string form so posdec sees them like Number.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(calendar.Date); ok && !d.IsZero() {
			return d.Format(time.RFC3339)
		}
		return ""
	}, calendar.Date{})

	out := &Validator{v: v, region: strings.ToUpper(region)}

	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return out.Phone(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("posint", func(fl validator.FieldLevel) bool {
		n, err := Number(fl.Field().String()).Int()
		return err == nil && n > 0
	})
	_ = v.RegisterValidation("nonnegint", func(fl validator.FieldLevel) bool {
		n, err := Number(fl.Field().String()).Int()
		return err == nil && n >= 0
	})
	_ = v.RegisterValidation("posdec", func(fl validator.FieldLevel) bool {
		d, err := Number(fl.Field().String()).Decimal()
		return err == nil && d.GreaterThan(decimal.Zero)
	})
	return out
}

// Phone checks a phone number against the configured region.
func (v *Validator) Phone(number string) error {
	p, err := libphonenumber.Parse(number, v.region)
	if err != nil {
		return err
	}
	if !libphonenumber.IsValidNumber(p) {
		return fmt.Errorf("phone number is not valid")
	}
	return nil
}

// Struct validates s and returns the first failure as an *apperr.ValidationError.
// Fields are checked in declaration order and slices element by element.
func (v *Validator) Struct(s any, messages Messages) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	if msg, ok := messages[fe.StructField()+"."+fe.Tag()]; ok {
		return apperr.Validation(fe.Field(), msg)
	}
	return apperr.Validation(fe.Field(), defaultMessage(fe))
}

func defaultMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("At least %s %s is required", fe.Param(), fe.Field())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), "_", " "))
	case "email":
		return fe.Field() + " must be a valid email address"
	case "phone":
		return fe.Field() + " must be a valid phone number"
	case "posint", "posdec":
		return fe.Field() + " must be greater than 0"
	case "nonnegint":
		return fe.Field() + " must be a non-negative number"
	default:
		return fe.Field() + " is invalid"
	}
}
