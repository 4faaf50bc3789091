package validate

import (
	"github.com/ShiraazMoollatjie/goluhn"
)

func IsLuna(s string) bool {
	err := goluhn.Validate(s)
	return err == nil
}

// WithCheckDigit appends the Luhn check digit to a numeric string.
func WithCheckDigit(s string) (string, error) {
	_, full, err := goluhn.Calculate(s)
	if err != nil {
		return "", err
	}
	return full, nil
}
