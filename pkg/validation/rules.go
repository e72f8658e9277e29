package validation

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-userform/pkg/model"
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	digitsPattern = regexp.MustCompile(`^\d+$`)
)

// PersonName validates first/last names: present, at least two characters
// and free of ASCII digits. subject prefixes every message ("First name").
func PersonName(subject string) model.Validator {
	return func(value string) error {
		if value == "" {
			return errors.New(subject + " is required")
		}
		if utf8.RuneCountInString(value) < 2 {
			return errors.New(subject + " must be at least 2 characters")
		}
		if strings.ContainsAny(value, "0123456789") {
			return errors.New(subject + " should not contain numbers")
		}
		return nil
	}
}

// Email validates local@domain.tld shaped addresses.
func Email(value string) error {
	if value == "" {
		return errors.New("Email is required")
	}
	if !emailPattern.MatchString(value) {
		return errors.New("Please enter a valid email address (e.g. name@example.com)")
	}
	return nil
}

// Phone returns a validator for digit-only numbers of exactly n digits.
func Phone(n int) model.Validator {
	exact := regexp.MustCompile(`^\d{` + strconv.Itoa(n) + `}$`)
	return func(value string) error {
		if value == "" {
			return errors.New("Phone number is required")
		}
		if !digitsPattern.MatchString(value) {
			return errors.New("Phone number must contain only digits")
		}
		if !exact.MatchString(value) {
			return errors.New("Phone number must be exactly " + strconv.Itoa(n) + " digits")
		}
		return nil
	}
}
