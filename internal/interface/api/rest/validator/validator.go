package validator

import (
	"net/mail"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"fileshare-api/internal/interface/api/rest/dto/auth"
	"fileshare-api/internal/interface/api/rest/dto/file"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 72 // bcrypt safe
	maxNameLen     = 255
	maxFullNameLen = 128
	maxListLimit   = 1000
)

func IsUUID(s string) (bool, uuid.UUID) {
	id, err := uuid.Parse(s)
	return err == nil, id
}

func IsEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	a, err := mail.ParseAddress(s)
	// reject "Name <a@b>" forms, only the bare address is accepted
	return err == nil && a.Address == s
}

// ValidateLimit parses the optional list limit. Empty means server default.
func ValidateLimit(limit string) (int, map[string]string) {
	if limit == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(limit)
	if err != nil || n < 1 || n > maxListLimit {
		return 0, map[string]string{"limit": "must be an integer in 1–1000"}
	}
	return n, nil
}

func ValidateLogin(r auth.LoginRequest) map[string]string {
	errs := make(map[string]string)

	validateEmail(errs, r.Email)
	validatePassword(errs, r.Password)

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func ValidateRegister(r auth.RegisterRequest) map[string]string {
	errs := make(map[string]string)

	validateEmail(errs, r.Email)
	validatePassword(errs, r.Password)
	if utf8.RuneCountInString(strings.TrimSpace(r.FullName)) > maxFullNameLen {
		errs["full_name"] = "full_name must be at most 128 characters"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func ValidateRename(r file.RenameRequest) map[string]string {
	errs := make(map[string]string)

	validateName(errs, "name", r.Name, true)

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func ValidateUploadURL(r file.UploadURLRequest) map[string]string {
	errs := make(map[string]string)

	validateName(errs, "name", r.Name, true)

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func ValidateCreate(r file.CreateRequest) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(r.Path) == "" {
		errs["path"] = "path is required"
	}
	validateName(errs, "name", r.Name, false)
	if r.Size < 0 {
		errs["size"] = "size must not be negative"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateEmail(errs map[string]string, email string) {
	if strings.TrimSpace(email) == "" {
		errs["email"] = "email is required"
	} else if !IsEmail(email) {
		errs["email"] = "invalid email format"
	}
}

func validatePassword(errs map[string]string, password string) {
	// passwords are not trimmed
	if strings.TrimSpace(password) == "" {
		errs["password"] = "password is required"
	} else if l := utf8.RuneCountInString(password); l < minPasswordLen || l > maxPasswordLen {
		errs["password"] = "password length must be 8–72 characters"
	}
}

func validateName(errs map[string]string, field, name string, required bool) {
	name = strings.TrimSpace(name)
	switch {
	case name == "" && required:
		errs[field] = field + " is required"
	case utf8.RuneCountInString(name) > maxNameLen:
		errs[field] = field + " must be at most 255 characters"
	}
}
