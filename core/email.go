package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidEmailAddress = errors.New("invalid e-mail address")
	ErrEmailAddressEmpty   = errors.New("e-mail address is empty")
)

type EmailAddress interface {
	// String returns the string representation for this e-mail address
	String() string
}

type emailAddress struct {
	address string
}

func (email emailAddress) String() string {
	return email.address
}

// ParseEmailAddress parses an e-mail address from any string.
// An address is valid iff it contains an '@' and at least one '.'.
// Addresses are lowercased before use, e-mail is case-insensitive here.
func ParseEmailAddress(address string) (EmailAddress, error) {
	if len(address) == 0 {
		return nil, errors.Join(ErrInvalidInput, ErrInvalidEmailAddress, ErrEmailAddressEmpty)
	}
	address = strings.ToLower(address)
	if !strings.ContainsRune(address, '@') || !strings.ContainsRune(address, '.') {
		return nil, errors.Join(
			ErrInvalidInput,
			ErrInvalidEmailAddress,
			fmt.Errorf("e-mail address %q needs both an '@' and a '.'", address),
		)
	}
	return emailAddress{address}, nil
}
