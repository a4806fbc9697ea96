package utils

import (
	"regexp"
	"strings"
)

var nonDigitRegexp = regexp.MustCompile(`\D`)

// NormalizePhone оставляет только цифры и ведущий '+'.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	digitsOnly := nonDigitRegexp.ReplaceAllString(phone, "")
	if strings.HasPrefix(phone, "+") && digitsOnly != "" {
		return "+" + digitsOnly
	}
	return digitsOnly
}

// NormalizePlate приводит номер к верхнему регистру без лишних пробелов.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.Join(strings.Fields(plate), " "))
}
