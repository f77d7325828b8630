package middleware

import (
	"errors"
	"fmt"
)

var errMissingSubject = errors.New("auth: user id missing from response")

func errUnexpectedStatus(status int) error {
	return fmt.Errorf("auth: unexpected status %d", status)
}
