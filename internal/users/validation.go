package users

import (
	"github.com/angelmondragon/marketplace-backend/internal/validation"
)

// LoginInput is what the login form submits.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"notblank"`
}

// SignupInput is what the signup form submits. Role defaults to buyer when empty.
type SignupInput struct {
	FullName        string `json:"full_name" validate:"notblank"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"notblank"`
	ConfirmPassword string `json:"confirm_password" validate:"notblank"`
	Role            string `json:"role" validate:"omitempty,user_role"`
}

// ProfileInput is the editable part of the account.
type ProfileInput struct {
	FullName      string `json:"full_name" validate:"notblank"`
	Email         string `json:"email" validate:"required,email"`
	ContactNumber string `json:"contact_number" validate:"notblank"`
	Address       string `json:"address" validate:"notblank"`
}

// PasswordChangeInput is submitted from the settings screen.
type PasswordChangeInput struct {
	CurrentPassword string `json:"current_password" validate:"notblank"`
	NewPassword     string `json:"new_password" validate:"notblank,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"notblank"`
}

func ValidateLogin(in LoginInput) validation.Result {
	return validation.Struct(in)
}

func ValidateSignup(in SignupInput) validation.Result {
	res := validation.Struct(in)
	if in.Password != "" && in.ConfirmPassword != "" && in.Password != in.ConfirmPassword && !res.Has("confirm_password") {
		res.Add("confirm_password", "passwords do not match")
	}
	return res
}

func ValidateProfile(in ProfileInput) validation.Result {
	return validation.Struct(in)
}

func ValidatePasswordChange(in PasswordChangeInput) validation.Result {
	res := validation.Struct(in)
	if in.NewPassword != "" && in.ConfirmPassword != "" && in.NewPassword != in.ConfirmPassword && !res.Has("confirm_password") {
		res.Add("confirm_password", "passwords do not match")
	}
	if in.NewPassword != "" && in.NewPassword == in.CurrentPassword && !res.Has("new_password") {
		res.Add("new_password", "must differ from the current password")
	}
	return res
}
