package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trampala/trampala-backend/pkg/db/models"
	pkgerrors "github.com/trampala/trampala-backend/pkg/errors"
)

// Service exposes category tree management operations.
type Service interface {
	Roots(ctx context.Context) ([]CategoryDTO, error)
	Children(ctx context.Context, parentID uuid.UUID) ([]CategoryDTO, error)
	BySlug(ctx context.Context, slug string) (*CategoryDTO, error)
	WithChildrenCounts(ctx context.Context) ([]CategoryDTO, error)
	Create(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateCategoryInput holds the validated payload to create a category.
type CreateCategoryInput struct {
	Name        string
	Description *string
	ParentID    *uuid.UUID
	IsActive    *bool
}

// UpdateCategoryInput holds optional mutation values for a category.
type UpdateCategoryInput struct {
	Name        *string
	Slug        *string
	Description *string
	ParentID    *uuid.UUID
	ClearParent bool
	IsActive    *bool
}

type service struct {
	repo *Repository
}

// NewService constructs a category service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Roots(ctx context.Context) ([]CategoryDTO, error) {
	roots, err := s.repo.Roots(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list root categories")
	}
	return NewCategoryDTOs(roots), nil
}

func (s *service) Children(ctx context.Context, parentID uuid.UUID) ([]CategoryDTO, error) {
	if _, err := s.repo.FindByID(ctx, parentID); err != nil {
		return nil, notFoundOrDependency(err, "load parent category")
	}
	children, err := s.repo.Children(ctx, parentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list child categories")
	}
	return NewCategoryDTOs(children), nil
}

func (s *service) BySlug(ctx context.Context, slug string) (*CategoryDTO, error) {
	category, err := s.repo.BySlug(ctx, slug)
	if err != nil {
		return nil, notFoundOrDependency(err, "load category by slug")
	}
	dto := NewCategoryDTO(*category)
	return &dto, nil
}

func (s *service) WithChildrenCounts(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.WithChildrenCounts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count children per category")
	}
	dtos := make([]CategoryDTO, 0, len(rows))
	for _, row := range rows {
		dto := NewCategoryDTO(row.Category)
		count := row.ChildrenCount
		dto.ChildrenCount = &count
		dtos = append(dtos, dto)
	}
	return dtos, nil
}

func (s *service) Create(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	if input.ParentID != nil {
		if _, err := s.repo.FindByID(ctx, *input.ParentID); err != nil {
			return nil, notFoundOrDependency(err, "load parent category")
		}
	}

	slug, err := uniqueSlug(ctx, s.repo, Slugify(name), nil)
	if err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:        name,
		Slug:        slug,
		Description: input.Description,
		ParentID:    input.ParentID,
		IsActive:    true,
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	created, err := s.repo.Create(ctx, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert category")
	}
	dto := NewCategoryDTO(*created)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrDependency(err, "load category")
	}

	if err := s.applyParentChange(ctx, category, input); err != nil {
		return nil, err
	}

	nameChanged := false
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		nameChanged = name != category.Name
		category.Name = name
	}

	switch {
	case input.Slug != nil:
		slug, err := uniqueSlug(ctx, s.repo, Slugify(*input.Slug), &id)
		if err != nil {
			return nil, err
		}
		category.Slug = slug
	case nameChanged:
		slug, err := uniqueSlug(ctx, s.repo, Slugify(category.Name), &id)
		if err != nil {
			return nil, err
		}
		category.Slug = slug
	}

	if input.Description != nil {
		category.Description = input.Description
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	updated, err := s.repo.Update(ctx, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update category")
	}
	dto := NewCategoryDTO(*updated)
	return &dto, nil
}

func (s *service) applyParentChange(ctx context.Context, category *models.Category, input UpdateCategoryInput) error {
	if input.ClearParent {
		category.ParentID = nil
		return nil
	}
	if input.ParentID == nil {
		return nil
	}

	parentID := *input.ParentID
	if parentID == category.ID {
		return pkgerrors.New(pkgerrors.CodeValidation, "category cannot be its own parent")
	}
	if _, err := s.repo.FindByID(ctx, parentID); err != nil {
		return notFoundOrDependency(err, "load parent category")
	}

	cyclic, err := s.repo.InAncestry(ctx, parentID, category.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: walk category ancestry")
	}
	if cyclic {
		return pkgerrors.New(pkgerrors.CodeValidation, "parent change would create a cycle")
	}

	category.ParentID = &parentID
	return nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFoundOrDependency(err, "load category")
	}

	hasChildren, err := s.repo.HasChildren(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check child categories")
	}
	if hasChildren {
		return pkgerrors.New(pkgerrors.CodeConflict, "category has child categories")
	}

	hasListings, err := s.repo.HasListings(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check category listings")
	}
	if hasListings {
		return pkgerrors.New(pkgerrors.CodeConflict, "category has listings")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete category")
	}
	return nil
}

func notFoundOrDependency(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}
