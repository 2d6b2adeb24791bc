package repository

import (
	"smart_classroom_backend/internal/model"

	"gorm.io/gorm"
)

type MaterialRepository struct {
	DB *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) *MaterialRepository {
	return &MaterialRepository{DB: db}
}

func (r *MaterialRepository) Create(m *model.Material) error {
	return r.DB.Create(m).Error
}

func (r *MaterialRepository) FindByID(id string) (*model.Material, error) {
	var m model.Material
	err := r.DB.First(&m, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MaterialRepository) ListByClass(classID string) ([]model.Material, error) {
	var ms []model.Material
	err := r.DB.Where("class_id = ?", classID).Order("created_at asc").Find(&ms).Error
	return ms, err
}

func (r *MaterialRepository) Delete(id string) error {
	return r.DB.Delete(&model.Material{}, "id = ?", id).Error
}
