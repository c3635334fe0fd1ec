package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/trip-editor/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(jsonFieldName)
	_ = validate.RegisterValidation("map_provider", validateProvider)
}

// Validate - валидация DTO; в ошибках поля называются по json-тегам
func Validate(s interface{}) error {
	return validate.Struct(s)
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	}
	return name
}

// validateProvider - имя провайдера карт: gaode или google
func validateProvider(fl validator.FieldLevel) bool {
	_, ok := domain.ParseProvider(fl.Field().String())
	return ok
}
