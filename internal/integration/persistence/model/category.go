// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/budgetree/backend/internal/domain/entity"
)

// CategoryModel represents the categories table in the database. The tree is
// stored flat: one row per category with a self-referencing parent ID.
// Soft delete is an explicit flag rather than gorm's DeletedAt so that
// inactive rows stay reachable through ordinary queries.
//
// NormalizedName is written on every insert and update from the Go-side
// normalizer, so sibling-uniqueness checks never depend on the database's
// own case folding (SQLite's LOWER is ASCII-only).
type CategoryModel struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	Name           string     `gorm:"type:varchar(100);not null"`
	NormalizedName string     `gorm:"type:varchar(100);not null;index"`
	Type           string     `gorm:"type:varchar(10);not null"`
	Color          string     `gorm:"type:varchar(7);default:'#6366F1'"`
	Icon           string     `gorm:"type:varchar(10);default:'tag'"`
	IsDefault      bool       `gorm:"not null;default:false"`
	ParentID       *uuid.UUID `gorm:"type:uuid;index"`
	IsActive       bool       `gorm:"not null;default:true;index"`
	CreatedAt      time.Time  `gorm:"not null"`
	UpdatedAt      time.Time  `gorm:"not null"`
}

// TableName returns the table name for the CategoryModel.
func (CategoryModel) TableName() string {
	return "categories"
}

// ToEntity converts a CategoryModel to a domain Category entity.
func (m *CategoryModel) ToEntity() *entity.Category {
	return &entity.Category{
		ID:        m.ID,
		UserID:    m.UserID,
		Name:      m.Name,
		Type:      entity.CategoryType(m.Type),
		Color:     m.Color,
		Icon:      m.Icon,
		IsDefault: m.IsDefault,
		ParentID:  m.ParentID,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// CategoryFromEntity creates a CategoryModel from a domain Category entity.
func CategoryFromEntity(category *entity.Category) *CategoryModel {
	return &CategoryModel{
		ID:             category.ID,
		UserID:         category.UserID,
		Name:           category.Name,
		NormalizedName: entity.NormalizeCategoryName(category.Name),
		Type:           string(category.Type),
		Color:          category.Color,
		Icon:           category.Icon,
		IsDefault:      category.IsDefault,
		ParentID:       category.ParentID,
		IsActive:       category.IsActive,
		CreatedAt:      category.CreatedAt,
		UpdatedAt:      category.UpdatedAt,
	}
}
