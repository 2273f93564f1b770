package validation

import (
	"net/mail"
	"strings"
)

// RegisterInput is the payload for user registration.
type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ValidateRegister checks registration fields and normalizes the email
// to lower case in place. Username uniqueness needs storage and stays
// with the caller.
func ValidateRegister(in *RegisterInput) Errors {
	errs := Errors{}

	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" {
		errs.Add("username", "Username is required.")
	} else if len(in.Username) > 150 {
		errs.Add("username", "Username cannot exceed 150 characters.")
	}

	ValidateEmail(&in.Email, errs)
	ValidatePassword(in.Password, errs)

	if strings.TrimSpace(in.FirstName) == "" {
		errs.Add("first_name", "First name is required.")
	}
	if strings.TrimSpace(in.LastName) == "" {
		errs.Add("last_name", "Last name is required.")
	}

	return errs
}

// ValidateEmail checks and lower-cases an email address in place.
func ValidateEmail(email *string, errs Errors) {
	cleaned := strings.ToLower(strings.TrimSpace(*email))
	if cleaned == "" {
		errs.Add("email", "Email is required.")
		return
	}
	if _, err := mail.ParseAddress(cleaned); err != nil {
		errs.Add("email", "Enter a valid email address.")
		return
	}
	*email = cleaned
}

// ValidatePassword enforces the minimum password length.
func ValidatePassword(password string, errs Errors) {
	if len(password) < 8 {
		errs.Add("password", "Password must be at least 8 characters.")
	}
}
