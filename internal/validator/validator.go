package validator

import (
	"errors"
	"regexp"
)

var (
	ErrInvalidEmail    = errors.New("invalid email")
	ErrInvalidUsername = errors.New("invalid username")
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidPhone    = errors.New("phone number must be 11 digits")
	ErrInvalidNetwork  = errors.New("unsupported network")
)

var (
	emailRegex    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)
	phoneRegex    = regexp.MustCompile(`^[0-9]{11}$`)
)

// Networks supported by the catalog. Purchase requests outside this set
// are rejected before touching the wallet.
var Networks = []string{"MTN", "Glo", "Airtel", "9mobile"}

func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrInvalidPassword
	}
	return nil
}

// ValidatePhone is purely syntactic: exactly 11 digits. No carrier
// lookup is performed; the telecom side of this system is simulated.
func ValidatePhone(phone string) error {
	if !phoneRegex.MatchString(phone) {
		return ErrInvalidPhone
	}
	return nil
}

func ValidateNetwork(network string) error {
	for _, known := range Networks {
		if network == known {
			return nil
		}
	}
	return ErrInvalidNetwork
}
