package model

import "github.com/google/uuid"

type Specialization struct {
	Base
	SpecializationName  string  `db:"specialization_name" json:"specialization_name"`
	Description         *string `db:"description" json:"description,omitempty"`
	IsActive            int     `db:"is_active" json:"is_active"`
	IsActiveForFacility int     `db:"is_active_for_facility" json:"is_active_for_facility"`
}

type UserSpecialization struct {
	Base
	UserID           uuid.UUID `db:"user_id" json:"user_id"`
	SpecializationID uuid.UUID `db:"specialization_id" json:"specialization_id"`
	IsActive         int       `db:"is_active" json:"is_active"`
}

type SpecializationFilters struct {
	Search              string `form:"search"`
	IsActive            *int   `form:"is_active"`
	IsActiveForFacility *int   `form:"is_active_for_facility"`
}
