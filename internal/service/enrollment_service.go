package service

import (
	"errors"
	"strings"

	"smart_classroom_backend/internal/model"
	"smart_classroom_backend/internal/repository"
	"smart_classroom_backend/internal/util"

	"gorm.io/gorm"
)

type EnrollmentService struct {
	ClassRepo  *repository.ClassRepository
	EnrollRepo *repository.EnrollmentRepository
}

func NewEnrollmentService(classRepo *repository.ClassRepository, enrollRepo *repository.EnrollmentRepository) *EnrollmentService {
	return &EnrollmentService{ClassRepo: classRepo, EnrollRepo: enrollRepo}
}

// EnrollByCode 学生通过 8 位邀请码加入课堂，重复加入直接拒绝
func (s *EnrollmentService) EnrollByCode(joinCode, studentID string) (*model.Class, error) {
	code := strings.ToUpper(strings.TrimSpace(joinCode))
	if code == "" {
		return nil, errors.New("join code is required")
	}

	class, err := s.ClassRepo.FindByJoinCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrClassNotFound
		}
		return nil, err
	}

	if _, err := s.EnrollRepo.Find(class.ID, studentID); err == nil {
		return nil, util.ErrAlreadyEnrolled
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	enrollment := &model.Enrollment{
		ClassID:   class.ID,
		StudentID: studentID,
	}
	if err := s.EnrollRepo.Create(enrollment); err != nil {
		return nil, err
	}
	return class, nil
}

// StudentClassView 学生视角的课堂列表项，带上自己的成绩与分组
type StudentClassView struct {
	Class         *model.Class `json:"class"`
	PretestScore  *float64     `json:"pretestScore"`
	PosttestScore *float64     `json:"posttestScore"`
	GroupNumber   *int         `json:"groupNumber"`
}

func (s *EnrollmentService) ListForStudent(studentID string) ([]StudentClassView, error) {
	enrollments, err := s.EnrollRepo.ListByStudent(studentID)
	if err != nil {
		return nil, err
	}

	views := make([]StudentClassView, 0, len(enrollments))
	for _, e := range enrollments {
		class, err := s.ClassRepo.FindByID(e.ClassID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		views = append(views, StudentClassView{
			Class:         class,
			PretestScore:  e.PretestScore,
			PosttestScore: e.PosttestScore,
			GroupNumber:   e.GroupNumber,
		})
	}
	return views, nil
}

func (s *EnrollmentService) Roster(classID string) ([]model.Enrollment, error) {
	return s.EnrollRepo.ListByClass(classID)
}

// IsEnrolled 是否已选该课堂
func (s *EnrollmentService) IsEnrolled(classID, studentID string) (bool, error) {
	_, err := s.EnrollRepo.Find(classID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
