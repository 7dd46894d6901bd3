package model

type RegisterRequest struct {
	Name       string `json:"name" validate:"required,min=2,max=100"`
	Pronoun    string `json:"pronoun" validate:"omitempty,max=30"`
	Email      string `json:"email" validate:"required,email,max=254"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
	Phone      string `json:"phone" validate:"omitempty,min=8,max=20"`
	BirthDate  string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	NationalID string `json:"national_id" validate:"omitempty,len=11,numeric"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

// UpdateProfileRequest carries only the fields the client wants to change;
// nil means "leave as is".
type UpdateProfileRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=2,max=100"`
	Pronoun    *string `json:"pronoun" validate:"omitempty,max=30"`
	Email      *string `json:"email" validate:"omitempty,email,max=254"`
	Phone      *string `json:"phone" validate:"omitempty,min=8,max=20"`
	BirthDate  *string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	NationalID *string `json:"national_id" validate:"omitempty,len=11,numeric"`
}
