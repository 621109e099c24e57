package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"

	"github.com/labstack/echo/v4"

	"github.com/todoapp/todo-api/internal/core/domain"
	"github.com/todoapp/todo-api/internal/core/validation"
)

// bindJSON decodes the request body into dst. A value of the wrong JSON type
// is reported against its field as a validation error; anything else that
// cannot be decoded is a 400.
func bindJSON(c echo.Context, dst any) error {
	err := c.Bind(dst)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		verr := domain.NewValidationError()
		verr.Add(typeErr.Field, validation.Message(typeErr.Field, typeRule(typeErr.Type), ""))
		return verr
	}

	return echo.NewHTTPError(http.StatusBadRequest, "Malformed JSON payload.").SetInternal(err)
}

func typeRule(t reflect.Type) string {
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Bool:
		return "boolean"
	case reflect.String:
		return "string"
	default:
		return ""
	}
}
