// Package validation checks request payloads before they reach the services.
package validation

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Helper wraps a validator with the wallet specific tags registered.
type Helper struct {
	validator *validator.Validate
}

// NewHelper registers the custom tags:
//
//	password  at least 8 characters with a special character
//	username  letters, digits, '_', '.' and '-'
//	amount    a decimal string strictly greater than zero
func NewHelper() *Helper {
	v := validator.New()
	mustRegister(v, "password", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})
	mustRegister(v, "username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "amount", func(fl validator.FieldLevel) bool {
		_, err := ParseAmount(fl.Field().String())
		return err == nil
	})
	return &Helper{validator: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// ValidateStruct validates a struct and returns validation errors
func (h *Helper) ValidateStruct(s any) error {
	return h.validator.Struct(s)
}

// Details flattens validation errors into field -> message pairs. Any other
// error is reported under "body".
func Details(err error) map[string]string {
	details := make(map[string]string)
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		details["body"] = err.Error()
		return details
	}
	for _, fe := range verrs {
		details[fe.Field()] = fmt.Sprintf("failed on '%s' tag", fe.Tag())
	}
	return details
}

// ParseAmount parses a strictly positive amount with at most two decimals.
func ParseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("amount must be greater than zero")
	}
	if amount.Exponent() < -2 && !amount.Equal(amount.Round(2)) {
		return decimal.Zero, fmt.Errorf("amount has more than two decimals")
	}
	return amount, nil
}
