package validator

import (
	"encoding/hex"

	"github.com/go-playground/validator/v10"
	"github.com/places-service/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// пустые значения пропускаются: поля необязательные
	_ = validate.RegisterValidation("placestatus", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || domain.IsKnownStatus(s)
	})
	_ = validate.RegisterValidation("placetype", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || domain.IsKnownPlaceType(s)
	})
	_ = validate.RegisterValidation("hexkey", func(fl validator.FieldLevel) bool {
		return IsHexKey(fl.Field().String())
	})
}

// Validate - валидация структуры
func Validate(s interface{}) error {
	return validate.Struct(s)
}

// IsHexKey проверяет, что s - 32-байтный ключ в hex (pubkey nostr)
func IsHexKey(s string) bool {
	if len(s) != 64 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

// GetValidator - получить валидатор для кастомной конфигурации
func GetValidator() *validator.Validate {
	return validate
}
