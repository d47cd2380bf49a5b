package models

import "regexp"

var taxIDPattern = regexp.MustCompile(`^\d{3}\.\d{3}\.\d{3}-\d{2}$`)

func isEightDigits(value string) bool {
	return isDigits(value, 8)
}

func isDigits(value string, length int) bool {
	if len(value) != length {
		return false
	}
	return digitsOnly(value)
}

func digitsOnly(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(value) > 0
}

func isTaxID(value string) bool {
	return taxIDPattern.MatchString(value)
}
