package models

import "strings"

// Role names as issued by the backend.
const (
	RoleAdmin    = "Admin"
	RoleCustomer = "Customer"
)

// Profile is the snapshot of the signed-in user kept alongside the token.
type Profile struct {
	UserID      int    `json:"userId"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Role        string `json:"role"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// FullName joins the first and last name.
func (p *Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// IsAdmin compares the role case-insensitively, the backend is not consistent about casing.
func (p *Profile) IsAdmin() bool {
	return p != nil && strings.EqualFold(p.Role, RoleAdmin)
}

// Valid reports whether the profile carries the fields a session needs.
func (p *Profile) Valid() bool {
	return p != nil && p.UserID > 0 && p.Email != ""
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phoneNumber,omitempty"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type ChangePasswordRequest struct {
	CurrentPassword    string `json:"currentPassword"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

type UpdatePhoneRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

type VerifyEmailRequest struct {
	Token string `json:"token"`
}

type ResendVerificationRequest struct {
	Email string `json:"email"`
}

// MessageResponse is the generic `{message}` acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserSummary is a row in the admin user listing.
type UserSummary struct {
	UserID      int    `json:"userId"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Role        string `json:"role"`
	IsActive    bool   `json:"isActive"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

// UserDetail adds the last login time to UserSummary.
type UserDetail struct {
	UserSummary
	LastLogin string `json:"lastLogin,omitempty"`
}

type CreateUserRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Role        string `json:"role"`
}

type UpdateUserRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Role        string `json:"role"`
	IsActive    bool   `json:"isActive"`
}

// UserQuery filters the paginated admin user listing.
type UserQuery struct {
	PageNumber int
	PageSize   int
	SearchTerm string
	Role       string
}

// Page is the paginated envelope returned by listing endpoints.
type Page[T any] struct {
	Data       []T `json:"data"`
	TotalCount int `json:"totalCount"`
	PageNumber int `json:"pageNumber"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}
