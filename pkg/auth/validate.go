package auth

import (
	"regexp"
	"sort"
	"strings"

	v "github.com/cohesivestack/valgo"

	"github.com/theapemachine/shopchat/pkg/errors"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+$`)

/*
ValidateRegistration checks registration data and reports every problem at
once, so a client can surface the full list to the user in one round trip.
*/
func ValidateRegistration(username, email, password string) error {
	val := v.Is(
		v.String(username, "username").
			MinLength(3, "Username must be at least 3 characters long").
			MaxLength(80, "Username must be less than 80 characters"),
		v.String(email, "email").
			MatchingTo(emailPattern, "Valid email address is required").
			MaxLength(120, "Email must be less than 120 characters"),
		v.String(password, "password").
			MinLength(6, "Password must be at least 6 characters long").
			MaxLength(128, "Password must be less than 128 characters"),
	)

	if val.Valid() {
		return nil
	}

	messages := []string{}
	for _, fieldError := range val.Errors() {
		messages = append(messages, fieldError.Messages()...)
	}
	sort.Strings(messages)

	return errors.ErrValidation.WithMessagef("%s", strings.Join(messages, "; "))
}
