package model

import "github.com/google/uuid"

type Facility struct {
	Base
	FacilityName       string            `db:"facility_name" json:"facility_name"`
	FacilityProfile    *string           `db:"facility_profile" json:"facility_profile,omitempty"`
	FacilityCoverImage *string           `db:"facility_cover_image" json:"facility_cover_image,omitempty"`
	FacilityLogo       *string           `db:"facility_logo" json:"facility_logo,omitempty"`
	FacilityPhone      *string           `db:"facility_phone" json:"facility_phone,omitempty"`
	FacilityEmail      *string           `db:"facility_email" json:"facility_email,omitempty"`
	FacilityLocation   *string           `db:"facility_location" json:"facility_location,omitempty"`
	FacilityWebsite    *string           `db:"facility_website" json:"facility_website,omitempty"`
	IsActive           int               `db:"is_active" json:"is_active"`
	CreatedBy          uuid.UUID         `db:"created_by" json:"created_by"`
	UpdatedBy          uuid.UUID         `db:"updated_by" json:"updated_by"`
	Specialties        []*Specialization `db:"-" json:"specialties,omitempty"`
}

type FacilitySpeciality struct {
	Base
	FacilityID   uuid.UUID `db:"facility_id" json:"facility_id"`
	SpecialityID uuid.UUID `db:"speciality_id" json:"speciality_id"`
	CreatedBy    uuid.UUID `db:"created_by" json:"created_by"`
	UpdatedBy    uuid.UUID `db:"updated_by" json:"updated_by"`
}

type SaveFacilityRequest struct {
	FacilityName     string  `json:"facility_name" binding:"required,max=255"`
	FacilityProfile  *string `json:"facility_profile"`
	FacilityEmail    *string `json:"facility_email" binding:"omitempty,email"`
	FacilityPhone    *string `json:"facility_phone" binding:"omitempty,max=20"`
	FacilityLocation *string `json:"facility_location"`
	FacilityWebsite  *string `json:"facility_website" binding:"omitempty,url,max=255"`
}

type UpdateFacilityRequest struct {
	FacilityName     *string `json:"facility_name" binding:"omitempty,max=255"`
	FacilityProfile  *string `json:"facility_profile"`
	FacilityEmail    *string `json:"facility_email" binding:"omitempty,email"`
	FacilityPhone    *string `json:"facility_phone" binding:"omitempty,max=20"`
	FacilityLocation *string `json:"facility_location"`
	FacilityWebsite  *string `json:"facility_website" binding:"omitempty,url,max=255"`
}

type SaveFacilitySpecialtiesRequest struct {
	FacilityID   uuid.UUID   `json:"facility_id" binding:"required"`
	SpecialtyIDs []uuid.UUID `json:"specialty_ids" binding:"required,min=1"`
}
