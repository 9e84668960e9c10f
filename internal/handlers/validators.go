package handlers

import (
	"github.com/NovaBankHQ/nova_banking_app/internal/utils"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidators installs request-binding validators used by the
// DTOs. Call once at startup.
func RegisterCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("accountnumber", func(fl validator.FieldLevel) bool {
			return utils.IsValidAccountNumber(fl.Field().String())
		})
	}
}
