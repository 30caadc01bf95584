package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"wine-pairing/internal/pkg/common"

	"github.com/go-playground/validator/v10"
)

// Validator 包裝 validator/v10，錯誤轉成 common.ValidationError
type Validator struct {
	v *validator.Validate
}

// New 創建驗證器，欄位名稱使用 json tag
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Struct 驗證結構
func (v *Validator) Struct(s interface{}) error {
	if err := v.v.Struct(s); err != nil {
		return v.convert(err)
	}
	return nil
}

func (v *Validator) convert(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, e := range verrs {
		fields[fieldPath(e)] = message(e)
	}
	return &common.ValidationError{Fields: fields}
}

// fieldPath 去掉根結構名稱，例如 taste_profile.richness
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", e.Param())
		}
		return "must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", e.Param())
		}
		return "must not exceed " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	default:
		return "is invalid"
	}
}
