package forms

import (
	"strings"
	"testing"

	"github.com/dmitrijs2005/tasklist/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldErrors(t *testing.T, err error) Errors {
	t.Helper()
	if err == nil {
		return nil
	}
	fe, ok := err.(Errors)
	require.True(t, ok, "want forms.Errors, got %T", err)
	return fe
}

func TestValidateLogin(t *testing.T) {
	tests := []struct {
		name string
		req  models.LoginRequest
		want Errors
	}{
		{"ok", models.LoginRequest{Email: "a@b.co", Password: "x"}, nil},
		{"empty", models.LoginRequest{}, Errors{"email": "Email is required", "password": "Password is required"}},
		{"bad email", models.LoginRequest{Email: "nope", Password: "x"}, Errors{"email": "Invalid email address"}},
		{"blank email", models.LoginRequest{Email: "   ", Password: "x"}, Errors{"email": "Email is required"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fieldErrors(t, ValidateLogin(tt.req)))
		})
	}
}

func TestValidateRegister(t *testing.T) {
	valid := models.RegisterRequest{
		Name: "Alice", Email: "alice@example.org", Username: "alice",
		Password: "secret1", PasswordConfirmation: "secret1",
	}
	require.NoError(t, ValidateRegister(valid))

	short := valid
	short.Username = "al"
	assert.Equal(t, Errors{"username": "Username must be at least 3 characters"}, fieldErrors(t, ValidateRegister(short)))

	long := valid
	long.Username = strings.Repeat("a", 21)
	assert.Equal(t, Errors{"username": "Username cannot exceed 20 characters"}, fieldErrors(t, ValidateRegister(long)))

	weak := valid
	weak.Password, weak.PasswordConfirmation = "12345", "12345"
	assert.Equal(t, Errors{"password": "Password must be at least 6 characters"}, fieldErrors(t, ValidateRegister(weak)))

	mismatch := valid
	mismatch.PasswordConfirmation = "secret2"
	assert.Equal(t, Errors{"password_confirmation": "Passwords must match"}, fieldErrors(t, ValidateRegister(mismatch)))

	unconfirmed := valid
	unconfirmed.PasswordConfirmation = ""
	assert.Equal(t, Errors{"password_confirmation": "Password confirmation is required"},
		fieldErrors(t, ValidateRegister(unconfirmed)))

	errs := fieldErrors(t, ValidateRegister(models.RegisterRequest{}))
	assert.Len(t, errs, 5)
	assert.Equal(t, "Full Name is required", errs["name"])
	assert.Equal(t, "Password confirmation is required", errs["password_confirmation"])
}

func TestValidateTask(t *testing.T) {
	require.NoError(t, ValidateTask(models.TaskInput{Name: "n", Description: "d"}))
	assert.Equal(t, Errors{"description": "Task description is required"},
		fieldErrors(t, ValidateTask(models.TaskInput{Name: "n"})))
	assert.Equal(t, Errors{"name": "Task name is required", "description": "Task description is required"},
		fieldErrors(t, ValidateTask(models.TaskInput{})))
}

func TestValidateShare(t *testing.T) {
	offered := []models.Permission{{ID: 1, Name: "view"}, {ID: 2, Name: "edit"}}

	require.NoError(t, ValidateShare(models.ShareRequest{Username: "bob", Permission: "2"}, offered))
	require.NoError(t, ValidateShare(models.ShareRequest{Username: "bob", Permission: "Edit"}, offered))

	assert.Equal(t, Errors{"permission": "Choose one of the offered permissions"},
		fieldErrors(t, ValidateShare(models.ShareRequest{Username: "bob", Permission: "admin"}, offered)))
	assert.Equal(t, Errors{"username": "Username is required", "permission": "Permission is required"},
		fieldErrors(t, ValidateShare(models.ShareRequest{}, offered)))
}

func TestErrors(t *testing.T) {
	e := Errors{}
	require.NoError(t, e.Err())

	e.Add("b", "second")
	e.Add("a", "first")
	e.Add("a", "ignored")
	assert.Equal(t, "a: first; b: second", e.Error())
	assert.Error(t, e.Err())
}
