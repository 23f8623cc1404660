package validator

import (
	"github.com/burn-ops-service/internal/domain"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Словари модели горючего и ролей фиксированы
	_ = validate.RegisterValidation("fuel_model", func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		return v == "" || domain.FuelModel(v).IsValid()
	})
	_ = validate.RegisterValidation("personnel_role", func(fl validator.FieldLevel) bool {
		return domain.PersonnelRole(fl.Field().String()).IsValid()
	})
}

// Validate - валидация структуры
func Validate(s interface{}) error {
	return validate.Struct(s)
}

// GetValidator - получить валидатор для кастомной конфигурации
func GetValidator() *validator.Validate {
	return validate
}

// FieldErrors превращает ошибки валидации в map поле -> тег для деталей ответа
func FieldErrors(err error) map[string]interface{} {
	details := make(map[string]interface{})
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		details["error"] = err.Error()
		return details
	}
	for _, fe := range verrs {
		details[fe.Field()] = fe.Tag()
	}
	return details
}
