package models

// Profile is the signed-in user as reported by GET /me.
type Profile struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name                 string `json:"name"`
	Username             string `json:"username"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// RegisteredUser is the account created by POST /register. Token may be
// empty when the server expects a separate login.
type RegisteredUser struct {
	Profile
	Token string `json:"token"`
}

// Message is the generic acknowledgement / error body.
type Message struct {
	Message string `json:"message"`
}
