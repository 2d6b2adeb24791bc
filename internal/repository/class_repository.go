package repository

import (
	"smart_classroom_backend/internal/model"

	"gorm.io/gorm"
)

type ClassRepository struct {
	DB *gorm.DB
}

func NewClassRepository(db *gorm.DB) *ClassRepository {
	return &ClassRepository{DB: db}
}

func (r *ClassRepository) Create(class *model.Class) error {
	return r.DB.Create(class).Error
}

func (r *ClassRepository) FindByID(id string) (*model.Class, error) {
	var class model.Class
	err := r.DB.First(&class, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &class, nil
}

func (r *ClassRepository) FindByJoinCode(code string) (*model.Class, error) {
	var class model.Class
	err := r.DB.Where("join_code = ?", code).First(&class).Error
	if err != nil {
		return nil, err
	}
	return &class, nil
}

// FindOwned 归属校验：课堂必须属于该教师
func (r *ClassRepository) FindOwned(id, teacherID string) (*model.Class, error) {
	var class model.Class
	err := r.DB.Where("id = ? AND teacher_id = ?", id, teacherID).First(&class).Error
	if err != nil {
		return nil, err
	}
	return &class, nil
}

func (r *ClassRepository) ListByTeacher(teacherID string) ([]model.Class, error) {
	var classes []model.Class
	err := r.DB.Where("teacher_id = ?", teacherID).Order("created_at desc").Find(&classes).Error
	return classes, err
}

func (r *ClassRepository) Update(class *model.Class) error {
	return r.DB.Save(class).Error
}

func (r *ClassRepository) UpdateStatus(id string, status model.ClassStatus) error {
	return r.DB.Model(&model.Class{}).Where("id = ?", id).Update("status", status).Error
}

func (r *ClassRepository) Delete(id string) error {
	return r.DB.Delete(&model.Class{}, "id = ?", id).Error
}

func (r *ClassRepository) JoinCodeExists(code string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Class{}).Where("join_code = ?", code).Count(&count).Error
	return count > 0, err
}
