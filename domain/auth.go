package domain

// Credentials are submitted by the login form.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Registration is submitted by the sign-up form.
type Registration struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,e164"`
}

// Session is what the server hands back after login or registration.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	FirstName    string `json:"firstName,omitempty" validate:"omitempty,min=1"`
	LastName     string `json:"lastName,omitempty" validate:"omitempty,min=1"`
	Phone        string `json:"phone,omitempty" validate:"omitempty,e164"`
	ProfileImage string `json:"profileImage,omitempty" validate:"omitempty,url"`
}
