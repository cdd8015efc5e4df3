package ginserver

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	domainbooking "staybook/internal/domain/booking"
)

// registerStateLabelValidation teaches the binding validator about the
// closed booking state set so malformed labels are rejected at the edge,
// before a command is ever built.
func registerStateLabelValidation() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("state_label", func(fl validator.FieldLevel) bool {
		_, err := domainbooking.ParseState(fl.Field().String())
		return err == nil
	})
}
