package repository

import (
	"smart_classroom_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NoteRepository struct {
	DB *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{DB: db}
}

// Upsert (class, group) 单行整体覆盖
func (r *NoteRepository) Upsert(note *model.GroupNote) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "class_id"}, {Name: "group_number"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "updated_by_id", "updated_at"}),
	}).Create(note).Error
}

func (r *NoteRepository) Find(classID string, groupNumber int) (*model.GroupNote, error) {
	var note model.GroupNote
	err := r.DB.Where("class_id = ? AND group_number = ?", classID, groupNumber).First(&note).Error
	if err != nil {
		return nil, err
	}
	return &note, nil
}
