package validate

import (
	"errors"
	"strings"
)

// Credentials checks the login and registration forms. Both fields are required; nothing else is enforced.
func Credentials(username, password string) error {
	var errs = []error{}

	errs = append(errs, Username(username))

	errs = append(errs, Password(password))

	return errors.Join(errs...)
}

func Password(password string) error {
	if strings.TrimSpace(password) == "" {
		return errors.New("empty password")
	}
	return nil
}

func Username(username string) error {
	if strings.TrimSpace(username) == "" {
		return errors.New("empty username")
	}
	return nil
}

func Comment(content string) error {
	if strings.TrimSpace(content) == "" {
		return errors.New("empty comment")
	}
	return nil
}
