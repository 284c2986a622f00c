package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var registerOnce sync.Once

// RegisterValidators configura o validator do gin: nomes de campo vindos
// das tags json/form e a regra notblank
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		v.RegisterTagNameFunc(tagName)
		err = v.RegisterValidation("notblank", validators.NotBlank)
	})
	return err
}

func tagName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// BindingErrors converte o erro do ShouldBind em erros por campo.
// ok=false indica corpo ilegível (JSON malformado, tipo errado).
func BindingErrors(c *gin.Context, err error) (fields []ValidationError, ok bool) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]ValidationError, 0, len(verrs))
		for _, fe := range verrs {
			value := valueString(fe.Value())
			if fe.Field() == "password" {
				value = ""
			}
			out = append(out, ValidationError{
				Field: fe.Field(),
				Message: T(c, "validation."+translatableTag(fe.Tag()), map[string]interface{}{
					"Field": fe.Field(),
					"Param": strings.ReplaceAll(fe.Param(), " ", ", "),
				}),
				Tag:   fe.Tag(),
				Value: value,
			})
		}
		return out, true
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return []ValidationError{{
			Field:   typeErr.Field,
			Message: T(c, "validation.invalid", map[string]interface{}{"Field": typeErr.Field}),
			Tag:     "type",
		}}, true
	}
	return nil, false
}

func translatableTag(tag string) string {
	switch tag {
	case "required", "notblank", "email", "min", "max", "oneof", "gte", "lte", "uuid", "url":
		return tag
	}
	return "invalid"
}

func valueString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case *string:
		if val == nil {
			return ""
		}
		return *val
	default:
		return fmt.Sprint(val)
	}
}
