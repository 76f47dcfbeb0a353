package models

// UserProfile is the backend's user record. The client passes it through
// without interpreting its shape.
type UserProfile map[string]any

// DisplayName picks something printable for prompts: name, then email.
// It returns "" when neither is a non-empty string.
func (u UserProfile) DisplayName() string {
	for _, key := range []string{"name", "email"} {
		if s, ok := u[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// AuthResponse is what login and register return on success.
type AuthResponse struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

// Credentials is the body of POST /api/auth/login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the body of POST /api/auth/register.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
