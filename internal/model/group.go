package model

import "github.com/google/uuid"

type GroupPrivacy string

const (
	GroupPrivacyPublic  GroupPrivacy = "public"
	GroupPrivacyPrivate GroupPrivacy = "private"
	GroupPrivacyClosed  GroupPrivacy = "closed"
)

type Group struct {
	Base
	GroupName        string       `db:"group_name" json:"group_name"`
	GroupDescription string       `db:"group_description" json:"group_description"`
	GroupLocation    string       `db:"group_location" json:"group_location"`
	GroupTags        *string      `db:"group_tags" json:"group_tags,omitempty"`
	GroupPrivacy     GroupPrivacy `db:"group_privacy" json:"group_privacy"`
	RequireApproval  bool         `db:"require_approval" json:"require_approval"`
	GroupImage       *string      `db:"group_image" json:"group_image,omitempty"`
	CoverImage       *string      `db:"cover_image" json:"cover_image,omitempty"`
	CreatedBy        uuid.UUID    `db:"created_by" json:"created_by"`
}

// IsOwnedBy reports whether userID created the group.
func (g *Group) IsOwnedBy(userID uuid.UUID) bool {
	return g.CreatedBy == userID
}

type GroupCategory struct {
	Base
	Name        string  `db:"name" json:"name"`
	Slug        string  `db:"slug" json:"slug"`
	Description *string `db:"description" json:"description,omitempty"`
	Position    int     `db:"position" json:"position"`
}

type GroupSubcategory struct {
	Base
	CategoryID  uuid.UUID `db:"category_id" json:"category_id"`
	Name        string    `db:"name" json:"name"`
	Slug        string    `db:"slug" json:"slug"`
	Description *string   `db:"description" json:"description,omitempty"`
	Position    int       `db:"position" json:"position"`
}

type GroupCategoryMapping struct {
	Base
	GroupID    uuid.UUID `db:"group_id" json:"group_id"`
	CategoryID uuid.UUID `db:"category_id" json:"category_id"`
}

type GroupSubcategoryMapping struct {
	Base
	GroupID       uuid.UUID `db:"group_id" json:"group_id"`
	SubcategoryID uuid.UUID `db:"subcategory_id" json:"subcategory_id"`
}

type CreateGroupRequest struct {
	GroupName        string      `json:"group_name" binding:"required,max=255"`
	GroupDescription string      `json:"group_description" binding:"required"`
	GroupLocation    string      `json:"group_location" binding:"required,max=255"`
	GroupTags        *string     `json:"group_tags" binding:"omitempty,max=500"`
	GroupPrivacy     string      `json:"group_privacy" binding:"required,oneof=public private closed"`
	RequireApproval  bool        `json:"require_approval"`
	CategoryID       uuid.UUID   `json:"category_id" binding:"required"`
	SubcategoryIDs   []uuid.UUID `json:"subcategory_ids" binding:"required,min=1"`
}

// SaveGroupRequest is the legacy create without taxonomy.
type SaveGroupRequest struct {
	GroupName        string  `json:"group_name" binding:"required,max=255"`
	GroupDescription string  `json:"group_description" binding:"required"`
	GroupLocation    string  `json:"group_location" binding:"required,max=255"`
	GroupTags        *string `json:"group_tags" binding:"omitempty,max=500"`
	GroupPrivacy     string  `json:"group_privacy" binding:"required,oneof=public private closed"`
	RequireApproval  bool    `json:"require_approval"`
}

type UpdateGroupCategoriesRequest struct {
	CategoryID     uuid.UUID   `json:"category_id" binding:"required"`
	SubcategoryIDs []uuid.UUID `json:"subcategory_ids" binding:"required,min=1"`
}

// GroupDetails is a group with its taxonomy resolved.
type GroupDetails struct {
	*Group
	Categories    []*GroupCategory    `json:"categories"`
	Subcategories []*GroupSubcategory `json:"subcategories"`
}
