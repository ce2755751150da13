package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/xyvra/marketplace-api/internal/model"
	"github.com/xyvra/marketplace-api/internal/repository"
)

type groupRepository struct {
	BaseRepository
}

func NewGroupRepository(base BaseRepository) repository.GroupRepository {
	return &groupRepository{base}
}

func (r *groupRepository) Create(ctx context.Context, group *model.Group, categoryID uuid.UUID, subcategoryIDs []uuid.UUID) error {
	group.ID = uuid.New()
	group.CreatedAt = time.Now()
	group.UpdatedAt = time.Now()

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO groups (
				id, group_name, group_description, group_location, group_tags,
				group_privacy, require_approval, created_by, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`
		_, err := tx.ExecContext(ctx, query,
			group.ID,
			group.GroupName,
			group.GroupDescription,
			group.GroupLocation,
			group.GroupTags,
			group.GroupPrivacy,
			group.RequireApproval,
			group.CreatedBy,
			group.CreatedAt,
			group.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group: %w", err)
		}

		return insertGroupMappings(ctx, tx, group.ID, categoryID, subcategoryIDs)
	})
}

func insertGroupMappings(ctx context.Context, tx *sqlx.Tx, groupID, categoryID uuid.UUID, subcategoryIDs []uuid.UUID) error {
	catQuery := `
		INSERT INTO group_category_mappings (id, group_id, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
	`
	if _, err := tx.ExecContext(ctx, catQuery, uuid.New(), groupID, categoryID); err != nil {
		return fmt.Errorf("failed to insert category mapping: %w", err)
	}

	subQuery := `
		INSERT INTO group_subcategory_mappings (id, group_id, subcategory_id, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
	`
	for _, subID := range subcategoryIDs {
		if _, err := tx.ExecContext(ctx, subQuery, uuid.New(), groupID, subID); err != nil {
			return fmt.Errorf("failed to insert subcategory mapping: %w", err)
		}
	}
	return nil
}

func (r *groupRepository) Get(ctx context.Context, id uuid.UUID) (*model.Group, error) {
	query := `SELECT * FROM groups WHERE id = $1`

	var group model.Group
	if err := r.db.GetContext(ctx, &group, query, id); err != nil {
		return nil, mapError(err, "group")
	}
	return &group, nil
}

func (r *groupRepository) GetDetails(ctx context.Context, id uuid.UUID) (*model.GroupDetails, error) {
	group, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	catQuery := `
		SELECT c.* FROM group_categories c
		JOIN group_category_mappings m ON m.category_id = c.id
		WHERE m.group_id = $1
		ORDER BY c.position
	`
	categories := []*model.GroupCategory{}
	if err := r.db.SelectContext(ctx, &categories, catQuery, id); err != nil {
		return nil, fmt.Errorf("failed to get group categories: %w", err)
	}

	subQuery := `
		SELECT s.* FROM group_sub_categories s
		JOIN group_subcategory_mappings m ON m.subcategory_id = s.id
		WHERE m.group_id = $1
		ORDER BY s.position
	`
	subcategories := []*model.GroupSubcategory{}
	if err := r.db.SelectContext(ctx, &subcategories, subQuery, id); err != nil {
		return nil, fmt.Errorf("failed to get group subcategories: %w", err)
	}

	return &model.GroupDetails{
		Group:         group,
		Categories:    categories,
		Subcategories: subcategories,
	}, nil
}

// Update writes the group row and replaces its taxonomy in one transaction,
// so a failed mapping write rolls back the row change too.
func (r *groupRepository) Update(ctx context.Context, group *model.Group, categoryID uuid.UUID, subcategoryIDs []uuid.UUID) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE groups SET
				group_name = $1,
				group_description = $2,
				group_location = $3,
				group_tags = $4,
				group_privacy = $5,
				require_approval = $6,
				updated_at = $7
			WHERE id = $8
		`

		result, err := tx.ExecContext(ctx, query,
			group.GroupName,
			group.GroupDescription,
			group.GroupLocation,
			group.GroupTags,
			group.GroupPrivacy,
			group.RequireApproval,
			time.Now(),
			group.ID,
		)
		if err != nil {
			return mapError(err, "group")
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return mapError(fmt.Errorf("group not found"), "group")
		}

		return replaceGroupMappings(ctx, tx, group.ID, categoryID, subcategoryIDs)
	})
}

// ReplaceCategories drops the group's taxonomy rows and writes the new set
// in one transaction.
func (r *groupRepository) ReplaceCategories(ctx context.Context, groupID, categoryID uuid.UUID, subcategoryIDs []uuid.UUID) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		return replaceGroupMappings(ctx, tx, groupID, categoryID, subcategoryIDs)
	})
}

func replaceGroupMappings(ctx context.Context, tx *sqlx.Tx, groupID, categoryID uuid.UUID, subcategoryIDs []uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM group_category_mappings WHERE group_id = $1`, groupID); err != nil {
		return fmt.Errorf("failed to clear category mappings: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM group_subcategory_mappings WHERE group_id = $1`, groupID); err != nil {
		return fmt.Errorf("failed to clear subcategory mappings: %w", err)
	}
	return insertGroupMappings(ctx, tx, groupID, categoryID, subcategoryIDs)
}

func (r *groupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM group_category_mappings WHERE group_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete category mappings: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM group_subcategory_mappings WHERE group_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete subcategory mappings: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete group: %w", err)
		}
		return nil
	})
}

func (r *groupRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Group, error) {
	query := `SELECT * FROM groups WHERE created_by = $1 ORDER BY created_at DESC`

	groups := []*model.Group{}
	if err := r.db.SelectContext(ctx, &groups, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

func (r *groupRepository) SetImage(ctx context.Context, id uuid.UUID, column, path string) error {
	if column != "group_image" && column != "cover_image" {
		return fmt.Errorf("unsupported group image column: %s", column)
	}

	query := fmt.Sprintf(`UPDATE groups SET %s = $1, updated_at = NOW() WHERE id = $2`, column)
	_, err := r.db.ExecContext(ctx, query, path, id)
	if err != nil {
		return fmt.Errorf("failed to update group image: %w", err)
	}
	return nil
}

func (r *groupRepository) ListCategories(ctx context.Context) ([]*model.GroupCategory, error) {
	query := `SELECT * FROM group_categories ORDER BY position, name`

	categories := []*model.GroupCategory{}
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("failed to list group categories: %w", err)
	}
	return categories, nil
}

func (r *groupRepository) GetCategory(ctx context.Context, id uuid.UUID) (*model.GroupCategory, error) {
	query := `SELECT * FROM group_categories WHERE id = $1`

	var category model.GroupCategory
	if err := r.db.GetContext(ctx, &category, query, id); err != nil {
		return nil, mapError(err, "category")
	}
	return &category, nil
}

func (r *groupRepository) ListSubcategories(ctx context.Context, categoryID uuid.UUID) ([]*model.GroupSubcategory, error) {
	query := `SELECT * FROM group_sub_categories WHERE category_id = $1 ORDER BY position, name`

	subs := []*model.GroupSubcategory{}
	if err := r.db.SelectContext(ctx, &subs, query, categoryID); err != nil {
		return nil, fmt.Errorf("failed to list group subcategories: %w", err)
	}
	return subs, nil
}

func (r *groupRepository) GetSubcategoriesByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.GroupSubcategory, error) {
	if len(ids) == 0 {
		return []*model.GroupSubcategory{}, nil
	}

	sql, args, err := r.Builder().From("group_sub_categories").
		Select("*").
		Where(goqu.I("id").In(uuidStrings(ids))).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build subcategory query: %w", err)
	}

	subs := []*model.GroupSubcategory{}
	if err := r.db.SelectContext(ctx, &subs, sql, args...); err != nil {
		return nil, fmt.Errorf("failed to get subcategories: %w", err)
	}
	return subs, nil
}
