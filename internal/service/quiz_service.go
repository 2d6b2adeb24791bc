package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"smart_classroom_backend/internal/model"
	"smart_classroom_backend/internal/repository"
	"smart_classroom_backend/internal/util"

	"gorm.io/gorm"
)

type QuizService struct {
	DB         *gorm.DB
	QuizRepo   *repository.QuizRepository
	ClassRepo  *repository.ClassRepository
	EnrollRepo *repository.EnrollmentRepository
}

func NewQuizService(db *gorm.DB, quizRepo *repository.QuizRepository, classRepo *repository.ClassRepository, enrollRepo *repository.EnrollmentRepository) *QuizService {
	return &QuizService{DB: db, QuizRepo: quizRepo, ClassRepo: classRepo, EnrollRepo: enrollRepo}
}

type QuestionInput struct {
	Text               string   `json:"text" binding:"required"`
	Options            []string `json:"options" binding:"required"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
}

type QuizInput struct {
	Title            string          `json:"title"`
	TimeLimitMinutes int             `json:"timeLimitMinutes"`
	Questions        []QuestionInput `json:"questions"`
	ReusePretest     bool            `json:"reusePretest"`
}

// validateQuestions 整卷校验，任一题不合法则整卷拒绝
func validateQuestions(questions []QuestionInput) error {
	if len(questions) == 0 {
		return errors.New("quiz must contain at least one question")
	}
	for i, q := range questions {
		if strings.TrimSpace(q.Text) == "" {
			return fmt.Errorf("question %d: text must not be empty", i+1)
		}
		if len(q.Options) < 2 {
			return fmt.Errorf("question %d: at least two options are required", i+1)
		}
		if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= len(q.Options) {
			return fmt.Errorf("question %d: correctAnswerIndex out of range", i+1)
		}
	}
	return nil
}

// SetQuiz 整卷覆盖式保存；后测可直接复用前测题目
func (s *QuizService) SetQuiz(classID, teacherID string, kind model.QuizKind, input QuizInput) (*model.Quiz, error) {
	if !model.ValidQuizKind(kind) {
		return nil, util.ErrInvalidQuizKind
	}
	if _, err := s.ownedClass(classID, teacherID); err != nil {
		return nil, err
	}

	questions := input.Questions
	title := input.Title
	timeLimit := input.TimeLimitMinutes

	if kind == model.Posttest && input.ReusePretest {
		pretest, err := s.QuizRepo.FindByClassAndKind(classID, model.Pretest)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.New("no pretest to reuse")
			}
			return nil, err
		}
		questions = make([]QuestionInput, 0, len(pretest.Questions))
		for _, q := range pretest.Questions {
			questions = append(questions, QuestionInput{
				Text:               q.Text,
				Options:            q.OptionList(),
				CorrectAnswerIndex: q.CorrectAnswerIndex,
			})
		}
		if title == "" {
			title = pretest.Title
		}
		if timeLimit == 0 {
			timeLimit = pretest.TimeLimitMinutes
		}
	}

	if err := validateQuestions(questions); err != nil {
		return nil, err
	}

	quiz := &model.Quiz{
		ClassID:          classID,
		Kind:             kind,
		Title:            title,
		TimeLimitMinutes: timeLimit,
	}
	for i, q := range questions {
		opts, err := json.Marshal(q.Options)
		if err != nil {
			return nil, err
		}
		quiz.Questions = append(quiz.Questions, model.Question{
			Text:               q.Text,
			Options:            opts,
			CorrectAnswerIndex: q.CorrectAnswerIndex,
			Position:           i,
		})
	}

	if err := s.QuizRepo.Replace(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

// QuestionView 学生端题目视图，不含正确答案
type QuestionView struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Options  []string `json:"options"`
	Position int      `json:"position"`
}

type QuizView struct {
	ID               string         `json:"id"`
	ClassID          string         `json:"classId"`
	Kind             model.QuizKind `json:"kind"`
	Title            string         `json:"title"`
	TimeLimitMinutes int            `json:"timeLimitMinutes"`
	Questions        []QuestionView `json:"questions"`
	AlreadyTaken     bool           `json:"alreadyTaken"`
}

// GetQuiz 学生取卷，答案字段在出口处剥离
func (s *QuizService) GetQuiz(classID, studentID string, kind model.QuizKind) (*QuizView, error) {
	if !model.ValidQuizKind(kind) {
		return nil, util.ErrInvalidQuizKind
	}
	quiz, err := s.QuizRepo.FindByClassAndKind(classID, kind)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	view := &QuizView{
		ID:               quiz.ID,
		ClassID:          quiz.ClassID,
		Kind:             quiz.Kind,
		Title:            quiz.Title,
		TimeLimitMinutes: quiz.TimeLimitMinutes,
		Questions:        make([]QuestionView, 0, len(quiz.Questions)),
	}
	for _, q := range quiz.Questions {
		view.Questions = append(view.Questions, QuestionView{
			ID:       q.ID,
			Text:     q.Text,
			Options:  q.OptionList(),
			Position: q.Position,
		})
	}

	if _, err := s.QuizRepo.FindSubmission(quiz.ID, studentID); err == nil {
		view.AlreadyTaken = true
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return view, nil
}

// GetQuizWithAnswers 教师取卷，含答案，须为课堂归属教师
func (s *QuizService) GetQuizWithAnswers(classID, teacherID string, kind model.QuizKind) (*model.Quiz, error) {
	if !model.ValidQuizKind(kind) {
		return nil, util.ErrInvalidQuizKind
	}
	if _, err := s.ownedClass(classID, teacherID); err != nil {
		return nil, err
	}
	quiz, err := s.QuizRepo.FindByClassAndKind(classID, kind)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) DeleteQuiz(classID, teacherID string, kind model.QuizKind) error {
	if !model.ValidQuizKind(kind) {
		return util.ErrInvalidQuizKind
	}
	if _, err := s.ownedClass(classID, teacherID); err != nil {
		return err
	}
	if err := s.QuizRepo.Delete(classID, kind); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuizNotFound
		}
		return err
	}
	return nil
}

type SubmitResult struct {
	Score          float64 `json:"score"`
	CorrectCount   int     `json:"correctCount"`
	TotalQuestions int     `json:"totalQuestions"`
}

// Submit 判分并落库。成绩单与选课记录在同一事务里写入，
// 不会出现交了卷却没有成绩的中间状态。
func (s *QuizService) Submit(classID, studentID string, kind model.QuizKind, answers []int) (*SubmitResult, error) {
	if !model.ValidQuizKind(kind) {
		return nil, util.ErrInvalidQuizKind
	}

	if _, err := s.EnrollRepo.Find(classID, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotEnrolled
		}
		return nil, err
	}

	quiz, err := s.QuizRepo.FindByClassAndKind(classID, kind)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	if _, err := s.QuizRepo.FindSubmission(quiz.ID, studentID); err == nil {
		return nil, util.ErrQuizAlreadyTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	correct, score := Grade(quiz.Questions, answers)

	scoreColumn := "pretest_score"
	if kind == model.Posttest {
		scoreColumn = "posttest_score"
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		submission := &model.QuizSubmission{
			QuizID:      quiz.ID,
			StudentID:   studentID,
			Score:       score,
			SubmittedAt: time.Now(),
		}
		if err := tx.Create(submission).Error; err != nil {
			return err
		}
		return tx.Model(&model.Enrollment{}).
			Where("class_id = ? AND student_id = ?", classID, studentID).
			Update(scoreColumn, score).Error
	})
	if err != nil {
		return nil, err
	}

	return &SubmitResult{Score: score, CorrectCount: correct, TotalQuestions: len(quiz.Questions)}, nil
}

// Grade 按题目顺序逐一比对。多余的答案截断，缺失的答案计错，
// 百分制得分保留一位小数。
func Grade(questions []model.Question, answers []int) (int, float64) {
	total := len(questions)
	if total == 0 {
		return 0, 0
	}
	correct := 0
	for i, q := range questions {
		if i >= len(answers) {
			break
		}
		if answers[i] == q.CorrectAnswerIndex {
			correct++
		}
	}
	score := math.Round(float64(correct)/float64(total)*1000) / 10
	return correct, score
}

func (s *QuizService) ownedClass(classID, teacherID string) (*model.Class, error) {
	class, err := s.ClassRepo.FindOwned(classID, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if _, e := s.ClassRepo.FindByID(classID); e == nil {
				return nil, util.ErrPermissionDenied
			}
			return nil, util.ErrClassNotFound
		}
		return nil, err
	}
	return class, nil
}
