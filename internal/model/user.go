package model

import (
	"time"

	"github.com/google/uuid"
)

// Account types
const (
	AccountTypeConsumer        = 1
	AccountTypeServiceProvider = 2
)

type User struct {
	Base
	Name             string     `db:"name" json:"name"`
	Email            string     `db:"email" json:"email"`
	PasswordHash     string     `db:"password" json:"-"`
	VerificationCode *string    `db:"verification_code" json:"-"`
	IsActive         int        `db:"is_active" json:"is_active"`
	EmailVerifiedAt  *time.Time `db:"email_verified_at" json:"email_verified_at,omitempty"`
	ProfileImage     *string    `db:"profile_image" json:"profile_image,omitempty"`
	DOB              *time.Time `db:"dob" json:"dob,omitempty"`
	Telephone        *string    `db:"telephone" json:"telephone,omitempty"`
	IDNumber         *string    `db:"id_number" json:"id_number,omitempty"`
	AccountType      *int       `db:"account_type" json:"account_type,omitempty"`
	Address          *string    `db:"address" json:"address,omitempty"`
	LicenceNumber    *string    `db:"licence_number" json:"licence_number,omitempty"`
	ProfessionalBio  *string    `db:"professional_bio" json:"professional_bio,omitempty"`
	SpApproved       int        `db:"sp_approved" json:"sp_approved"`
}

// IsServiceProvider reports whether the user registered as a provider.
func (u *User) IsServiceProvider() bool {
	return u.AccountType != nil && *u.AccountType == AccountTypeServiceProvider
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=4"`
}

type SendResetCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyResetCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=4"`
}

type ResetPasswordRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Code     string `json:"code" binding:"required,len=4"`
	Password string `json:"password" binding:"required,min=6"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type UpdateBasicDetailsRequest struct {
	Name        *string    `json:"name"`
	DOB         *time.Time `json:"dob"`
	Telephone   *string    `json:"telephone"`
	IDNumber    *string    `json:"id_number"`
	Address     *string    `json:"address"`
	AccountType *int       `json:"account_type" binding:"omitempty,oneof=1 2"`
}

type ServiceProviderDetailsRequest struct {
	LicenceNumber     string      `json:"licence_number" binding:"required"`
	ProfessionalBio   string      `json:"professional_bio" binding:"required"`
	SpecializationIDs []uuid.UUID `json:"specialization_ids" binding:"required,min=1"`
}

// UserProfile aggregates everything the profile endpoint returns.
type UserProfile struct {
	User                *User                 `json:"user"`
	Specializations     []*Specialization     `json:"specializations"`
	UserSpecializations []*UserSpecialization `json:"user_specializations"`
	UserIDs             []*UserDocument       `json:"user_ids"`
	UserDocuments       []*UserDocument       `json:"user_documents"`
}

// ServiceProviderProfile is the public view of a provider.
type ServiceProviderProfile struct {
	User            *User             `json:"user"`
	Specializations []*Specialization `json:"specializations"`
	Certificates    []*UserDocument   `json:"certificates"`
}
