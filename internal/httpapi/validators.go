package httpapi

import (
	"fmt"

	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators installs the domain binding tags on gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return registerOn(v)
}

func registerOn(v *validator.Validate) error {
	if err := v.RegisterValidation("itemtype", func(fl validator.FieldLevel) bool {
		return model.ItemType(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	return v.RegisterValidation("invtype", func(fl validator.FieldLevel) bool {
		return model.InventoryType(fl.Field().String()).Valid()
	})
}
