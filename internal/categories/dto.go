package categories

import (
	"time"

	"github.com/google/uuid"

	"github.com/trampala/trampala-backend/pkg/db/models"
)

// CategoryDTO is the wire representation of a category node.
type CategoryDTO struct {
	ID            uuid.UUID     `json:"id"`
	Name          string        `json:"name"`
	Slug          string        `json:"slug"`
	Description   *string       `json:"description,omitempty"`
	IsActive      bool          `json:"is_active"`
	ParentID      *uuid.UUID    `json:"parent_id,omitempty"`
	Parent        *CategoryDTO  `json:"parent,omitempty"`
	Children      []CategoryDTO `json:"children,omitempty"`
	ChildrenCount *int64        `json:"children_count,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// NewCategoryDTO maps the model onto its wire shape, one level of parent and
// children deep.
func NewCategoryDTO(category models.Category) CategoryDTO {
	dto := CategoryDTO{
		ID:          category.ID,
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
		IsActive:    category.IsActive,
		ParentID:    category.ParentID,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
	if category.Parent != nil {
		parent := NewCategoryDTO(*stripRelations(category.Parent))
		dto.Parent = &parent
	}
	if len(category.Children) > 0 {
		dto.Children = make([]CategoryDTO, 0, len(category.Children))
		for _, child := range category.Children {
			dto.Children = append(dto.Children, NewCategoryDTO(*stripRelations(&child)))
		}
	}
	return dto
}

// NewCategoryDTOs maps a slice of models.
func NewCategoryDTOs(categories []models.Category) []CategoryDTO {
	dtos := make([]CategoryDTO, 0, len(categories))
	for _, category := range categories {
		dtos = append(dtos, NewCategoryDTO(category))
	}
	return dtos
}

func stripRelations(category *models.Category) *models.Category {
	clone := *category
	clone.Parent = nil
	clone.Children = nil
	return &clone
}
