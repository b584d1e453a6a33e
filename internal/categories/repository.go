package categories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trampala/trampala-backend/pkg/db/models"
)

// Repository wraps category persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Roots lists active top level categories with their active children
// preloaded, ordered by name.
func (r *Repository) Roots(ctx context.Context) ([]models.Category, error) {
	var roots []models.Category
	err := r.db.WithContext(ctx).
		Where("parent_id IS NULL AND is_active = ?", true).
		Preload("Children", "is_active = ?", true).
		Order("name asc").
		Find(&roots).
		Error
	if err != nil {
		return nil, err
	}
	return roots, nil
}

// Children lists the active children of the given parent, ordered by name.
func (r *Repository) Children(ctx context.Context, parentID uuid.UUID) ([]models.Category, error) {
	var children []models.Category
	err := r.db.WithContext(ctx).
		Where("parent_id = ? AND is_active = ?", parentID, true).
		Order("name asc").
		Find(&children).
		Error
	if err != nil {
		return nil, err
	}
	return children, nil
}

// BySlug loads a category with its parent and active children.
func (r *Repository) BySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Preload("Parent").
		Preload("Children", "is_active = ?", true).
		First(&category, "slug = ?", slug).
		Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// FindByID loads the category without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// CategoryWithCount pairs a category with its direct child count.
type CategoryWithCount struct {
	models.Category
	ChildrenCount int64 `gorm:"column:children_count"`
}

// WithChildrenCounts lists active categories annotated with the number of
// direct children under each, ordered by name.
func (r *Repository) WithChildrenCounts(ctx context.Context) ([]CategoryWithCount, error) {
	var rows []CategoryWithCount
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Select("categories.*, count(children.id) AS children_count").
		Joins("LEFT JOIN categories AS children ON children.parent_id = categories.id AND children.deleted_at IS NULL").
		Where("categories.is_active = ?", true).
		Group("categories.id").
		Order("categories.name asc").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SlugExists reports whether the slug is taken by a record other than
// excludeID. Soft-deleted rows still hold their slug because the unique
// index covers them.
func (r *Repository) SlugExists(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).
		Unscoped().
		Model(&models.Category{}).
		Where("slug = ?", slug)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new category row.
func (r *Repository) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// Update saves the full category row.
func (r *Repository) Update(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// Delete soft deletes the category.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Category{}).Error
}

// HasChildren reports whether any live child references the category.
func (r *Repository) HasChildren(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("parent_id = ?", id).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasListings reports whether any live listing references the category.
func (r *Repository) HasListings(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("category_id = ?", id).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InAncestry reports whether target appears in the ancestor chain starting
// at startID (inclusive). Used to refuse parent changes that would create a
// cycle.
func (r *Repository) InAncestry(ctx context.Context, startID, target uuid.UUID) (bool, error) {
	current := &startID
	for current != nil {
		if *current == target {
			return true, nil
		}
		var parent struct {
			ParentID *uuid.UUID
		}
		err := r.db.WithContext(ctx).
			Model(&models.Category{}).
			Select("parent_id").
			Where("id = ?", *current).
			Scan(&parent).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return false, err
		}
		current = parent.ParentID
	}
	return false, nil
}
