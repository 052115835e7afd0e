package handler

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// registerValidators adds the ethaddr tag to gin's validator and makes field
// errors report JSON names
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("ethaddr", func(fl validator.FieldLevel) bool {
			return common.IsHexAddress(fl.Field().String())
		})
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})
	})
}

// bindingDetails turns a binding error into one message per offending field
func bindingDetails(err error) []string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{"request body must be a valid JSON object"}
	}

	details := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			details = append(details, fe.Field()+" is required")
		case "gt":
			details = append(details, fe.Field()+" must be greater than "+fe.Param())
		case "ethaddr":
			details = append(details, fe.Field()+" must be a hex encoded ethereum address")
		default:
			details = append(details, fe.Field()+" is invalid")
		}
	}
	return details
}
