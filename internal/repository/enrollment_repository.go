package repository

import (
	"smart_classroom_backend/internal/model"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) Create(e *model.Enrollment) error {
	return r.DB.Create(e).Error
}

func (r *EnrollmentRepository) Find(classID, studentID string) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.DB.Where("class_id = ? AND student_id = ?", classID, studentID).First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EnrollmentRepository) ListByClass(classID string) ([]model.Enrollment, error) {
	var es []model.Enrollment
	err := r.DB.Preload("Student").Where("class_id = ?", classID).Find(&es).Error
	return es, err
}

func (r *EnrollmentRepository) ListByStudent(studentID string) ([]model.Enrollment, error) {
	var es []model.Enrollment
	err := r.DB.Where("student_id = ?", studentID).Find(&es).Error
	return es, err
}

func (r *EnrollmentRepository) CountByClass(classID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).Where("class_id = ?", classID).Count(&count).Error
	return count, err
}

func (r *EnrollmentRepository) UpdateGroupNumber(classID, studentID string, groupNumber *int) error {
	return r.DB.Model(&model.Enrollment{}).
		Where("class_id = ? AND student_id = ?", classID, studentID).
		Update("group_number", groupNumber).Error
}
