package repository

import (
	"smart_classroom_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) FindByClassAndKind(classID string, kind model.QuizKind) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).Where("class_id = ? AND kind = ?", classID, kind).First(&quiz).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// Replace 同一 (class, kind) 的题目集整体替换，事务内先删后建
func (r *QuizRepository) Replace(quiz *model.Quiz) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.Quiz
		err := tx.Where("class_id = ? AND kind = ?", quiz.ClassID, quiz.Kind).First(&existing).Error
		if err == nil {
			// 被替换的题目物理删除，避免软删行堆积
			if err := tx.Unscoped().Where("quiz_id = ?", existing.ID).Delete(&model.Question{}).Error; err != nil {
				return err
			}
			existing.Title = quiz.Title
			existing.TimeLimitMinutes = quiz.TimeLimitMinutes
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			for i := range quiz.Questions {
				quiz.Questions[i].QuizID = existing.ID
			}
			quiz.ID = existing.ID
		} else if err == gorm.ErrRecordNotFound {
			if err := tx.Omit("Questions").Create(quiz).Error; err != nil {
				return err
			}
			for i := range quiz.Questions {
				quiz.Questions[i].QuizID = quiz.ID
			}
		} else {
			return err
		}

		if len(quiz.Questions) > 0 {
			if err := tx.Create(&quiz.Questions).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *QuizRepository) Delete(classID string, kind model.QuizKind) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var quiz model.Quiz
		if err := tx.Where("class_id = ? AND kind = ?", classID, kind).First(&quiz).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("quiz_id = ?", quiz.ID).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&quiz).Error
	})
}

func (r *QuizRepository) FindSubmission(quizID, studentID string) (*model.QuizSubmission, error) {
	var s model.QuizSubmission
	err := r.DB.Where("quiz_id = ? AND student_id = ?", quizID, studentID).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}
