package test

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-petr/pet-split/pkg/currencypkg"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators registers the custom binding validators used by the handlers.
func RegisterValidators(tb testing.TB) {
	tb.Helper()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		tb.Fatal("binding.Validator.Engine() is not *validator.Validate")
	}

	if err := v.RegisterValidation("currency", currencypkg.ValidCurrency); err != nil {
		tb.Fatalf(`v.RegisterValidation("currency") returned error: %v`, err)
	}

	if err := v.RegisterValidation("amount", currencypkg.ValidAmount); err != nil {
		tb.Fatalf(`v.RegisterValidation("amount") returned error: %v`, err)
	}
}
