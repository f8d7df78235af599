// Package validation provides custom validators for the application
package validation

import (
	"regexp"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Initialize registers all custom validators
func Initialize() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		for tag, fn := range map[string]validator.Func{
			"zone_code": validateZoneCode,
			"date":      validateDate,
		} {
			if err := v.RegisterValidation(tag, fn); err != nil {
				panic(err)
			}
		}
	}
}

var zoneCodeRe = regexp.MustCompile(`^[A-Z]{2}(-?[A-Z0-9]{1,4})?$`)

// validateZoneCode checks the bidding-zone code shape, e.g. NO1 or DE-LU
func validateZoneCode(fl validator.FieldLevel) bool {
	return zoneCodeRe.MatchString(fl.Field().String())
}

// validateDate checks for a YYYY-MM-DD calendar date
func validateDate(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}
