// internal/services/category_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decorahub/ecommerce-backend/internal/apperrors"
	"github.com/decorahub/ecommerce-backend/internal/models"
)

func TestCategoryDeactivateWithActiveChildren(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(db, testConfig())

	parent := models.Category{Name: "Furniture", Slug: "furniture", IsActive: true}
	require.NoError(t, db.Create(&parent).Error)
	child := models.Category{Name: "Chairs", Slug: "chairs", ParentID: &parent.ID, IsActive: true}
	require.NoError(t, db.Create(&child).Error)

	inactive := false
	_, err := svc.Update(parent.ID, &UpdateCategoryRequest{IsActive: &inactive})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	var got models.Category
	require.NoError(t, db.First(&got, "id = ?", parent.ID).Error)
	assert.True(t, got.IsActive, "parent must stay active when the update is rejected")
}

func TestCategoryDeactivateAfterChildren(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(db, testConfig())

	parent := models.Category{Name: "Furniture", Slug: "furniture", IsActive: true}
	require.NoError(t, db.Create(&parent).Error)
	child := models.Category{Name: "Chairs", Slug: "chairs", ParentID: &parent.ID, IsActive: true}
	require.NoError(t, db.Create(&child).Error)

	inactive := false
	_, err := svc.Update(child.ID, &UpdateCategoryRequest{IsActive: &inactive})
	require.NoError(t, err)

	updated, err := svc.Update(parent.ID, &UpdateCategoryRequest{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
}
