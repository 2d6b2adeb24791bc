package service

import (
	"errors"
	"time"

	"smart_classroom_backend/internal/model"
	"smart_classroom_backend/internal/repository"

	"gorm.io/gorm"
)

type NoteService struct {
	NoteRepo *repository.NoteRepository
}

func NewNoteService(noteRepo *repository.NoteRepository) *NoteService {
	return &NoteService{NoteRepo: noteRepo}
}

// Update 整体覆盖小组笔记，最后写入者胜出
func (s *NoteService) Update(classID string, groupNumber int, content, userID string) (time.Time, error) {
	note := &model.GroupNote{
		ClassID:     classID,
		GroupNumber: groupNumber,
		Content:     content,
		UpdatedByID: userID,
	}
	if err := s.NoteRepo.Upsert(note); err != nil {
		return time.Time{}, err
	}

	saved, err := s.NoteRepo.Find(classID, groupNumber)
	if err != nil {
		return time.Time{}, err
	}
	return saved.UpdatedAt, nil
}

// Get 尚无笔记时返回空内容而不是 404
func (s *NoteService) Get(classID string, groupNumber int) (*model.GroupNote, error) {
	note, err := s.NoteRepo.Find(classID, groupNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.GroupNote{ClassID: classID, GroupNumber: groupNumber, Content: ""}, nil
		}
		return nil, err
	}
	return note, nil
}
