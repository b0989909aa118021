package forms

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/tasklist/internal/client/models"
)

const (
	UsernameMin = 3
	UsernameMax = 20
	PasswordMin = 6
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func required(errs Errors, field, value, msg string) bool {
	if strings.TrimSpace(value) == "" {
		errs.Add(field, msg)
		return false
	}
	return true
}

func email(errs Errors, field, value string) {
	if !required(errs, field, value, "Email is required") {
		return
	}
	if !emailRe.MatchString(strings.TrimSpace(value)) {
		errs.Add(field, "Invalid email address")
	}
}

func ValidateLogin(req models.LoginRequest) error {
	errs := Errors{}
	email(errs, "email", req.Email)
	required(errs, "password", req.Password, "Password is required")
	return errs.Err()
}

func ValidateRegister(req models.RegisterRequest) error {
	errs := Errors{}
	required(errs, "name", req.Name, "Full Name is required")
	email(errs, "email", req.Email)

	if required(errs, "username", req.Username, "Username is required") {
		switch n := utf8.RuneCountInString(strings.TrimSpace(req.Username)); {
		case n < UsernameMin:
			errs.Add("username", fmt.Sprintf("Username must be at least %d characters", UsernameMin))
		case n > UsernameMax:
			errs.Add("username", fmt.Sprintf("Username cannot exceed %d characters", UsernameMax))
		}
	}
	if required(errs, "password", req.Password, "Password is required") &&
		utf8.RuneCountInString(req.Password) < PasswordMin {
		errs.Add("password", fmt.Sprintf("Password must be at least %d characters", PasswordMin))
	}
	if required(errs, "password_confirmation", req.PasswordConfirmation, "Password confirmation is required") &&
		req.PasswordConfirmation != req.Password {
		errs.Add("password_confirmation", "Passwords must match")
	}
	return errs.Err()
}

// ValidateTask covers both create and edit.
func ValidateTask(in models.TaskInput) error {
	errs := Errors{}
	required(errs, "name", in.Name, "Task name is required")
	required(errs, "description", in.Description, "Task description is required")
	return errs.Err()
}

// ValidateShare checks the permission against the ones the server offered.
// Permission may be given by id or by name.
func ValidateShare(req models.ShareRequest, offered []models.Permission) error {
	errs := Errors{}
	required(errs, "username", req.Username, "Username is required")
	if required(errs, "permission", req.Permission, "Permission is required") {
		if _, ok := ResolvePermission(req.Permission, offered); !ok {
			errs.Add("permission", "Choose one of the offered permissions")
		}
	}
	return errs.Err()
}

// ResolvePermission finds ref ("2" or "edit") among offered.
func ResolvePermission(ref string, offered []models.Permission) (models.Permission, bool) {
	ref = strings.TrimSpace(ref)
	for _, p := range offered {
		if fmt.Sprint(p.ID) == ref || strings.EqualFold(p.Name, ref) {
			return p, true
		}
	}
	return models.Permission{}, false
}
