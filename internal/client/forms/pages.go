package forms

import (
	"strconv"
	"strings"

	"github.com/dmitrijs2005/tasklist/internal/client/models"
)

func LoginForm() *Form {
	return &Form{Title: "Login", Fields: []Field{
		{Name: "email", Label: "Email"},
		{Name: "password", Label: "Password", Secret: true},
	}}
}

func (v Values) Login() models.LoginRequest {
	return models.LoginRequest{Email: v["email"], Password: v["password"]}
}

func RegisterForm() *Form {
	return &Form{Title: "Register", Fields: []Field{
		{Name: "name", Label: "Name"},
		{Name: "email", Label: "Email"},
		{Name: "username", Label: "Username"},
		{Name: "password", Label: "Password", Secret: true},
		{Name: "password_confirmation", Label: "Confirm password", Secret: true},
	}}
}

func (v Values) Register() models.RegisterRequest {
	return models.RegisterRequest{
		Name:                 v["name"],
		Email:                v["email"],
		Username:             v["username"],
		Password:             v["password"],
		PasswordConfirmation: v["password_confirmation"],
	}
}

// TaskForm is the create form, or the edit form when prefill is non-nil.
func TaskForm(prefill *models.Task) *Form {
	f := &Form{Title: "New task", Fields: []Field{
		{Name: "name", Label: "Name"},
		{Name: "description", Label: "Description", Multiline: true},
	}}
	if prefill != nil {
		f.Title = "Edit task"
		f.Fields[0].Value = prefill.Name
		f.Fields[1].Value = prefill.Description
	}
	return f
}

func (v Values) Task() models.TaskInput {
	return models.TaskInput{Name: v["name"], Description: v["description"]}
}

// ShareForm lists the offered permissions in the permission label.
func ShareForm(offered []models.Permission) *Form {
	label := "Permission"
	if len(offered) > 0 {
		names := make([]string, len(offered))
		for i, p := range offered {
			names[i] = p.Name
		}
		label += " (" + strings.Join(names, ", ") + ")"
	}
	return &Form{Title: "Share task", Fields: []Field{
		{Name: "username", Label: "Username"},
		{Name: "permission", Label: label},
	}}
}

// Share resolves the permission reference to the id the server expects.
func (v Values) Share(offered []models.Permission) models.ShareRequest {
	req := models.ShareRequest{Username: v["username"], Permission: v["permission"]}
	if p, ok := ResolvePermission(req.Permission, offered); ok {
		req.Permission = strconv.FormatInt(p.ID, 10)
	}
	return req
}
