package handler

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"wallet_dashboard_back/internal/wallet"
)

var validatorsOnce sync.Once

// registerValidators adds the evmaddr and decimalamt tags to gin's validator.
func registerValidators() {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("evmaddr", func(fl validator.FieldLevel) bool {
			return wallet.IsAddress(fl.Field().String())
		})
		_ = v.RegisterValidation("decimalamt", func(fl validator.FieldLevel) bool {
			_, err := wallet.ParseAmount(fl.Field().String())
			return err == nil
		})
	})
}
