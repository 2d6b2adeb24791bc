package service

import (
	"errors"
	"strings"

	"smart_classroom_backend/internal/model"
	"smart_classroom_backend/internal/repository"
	"smart_classroom_backend/internal/util"

	"gorm.io/gorm"
)

type ClassService struct {
	ClassRepo    *repository.ClassRepository
	EnrollRepo   *repository.EnrollmentRepository
	QuizRepo     *repository.QuizRepository
	MaterialRepo *repository.MaterialRepository
}

func NewClassService(classRepo *repository.ClassRepository, enrollRepo *repository.EnrollmentRepository, quizRepo *repository.QuizRepository, materialRepo *repository.MaterialRepository) *ClassService {
	return &ClassService{ClassRepo: classRepo, EnrollRepo: enrollRepo, QuizRepo: quizRepo, MaterialRepo: materialRepo}
}

// transitions 教师指令到目标状态的映射
var transitions = map[string]model.ClassStatus{
	EvStartClass:     model.StatusMainSession,
	EvActivateGroups: model.StatusGroupSession,
	EvEndClass:       model.StatusPosttest,
}

// statusMessages 状态切换时广播给全班的提示语
var statusMessages = map[model.ClassStatus]string{
	model.StatusMainSession:  "课堂已开始，请进入主会场",
	model.StatusGroupSession: "分组讨论已开启，请进入所在小组",
	model.StatusPosttest:     "课堂已结束，请完成后测",
}

func (s *ClassService) Create(name, teacherID string) (*model.Class, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("class name must not be empty")
	}

	code, err := s.generateJoinCode()
	if err != nil {
		return nil, err
	}

	class := &model.Class{
		Name:      strings.TrimSpace(name),
		JoinCode:  code,
		TeacherID: teacherID,
		Status:    model.StatusWaitingRoom,
	}
	if err := s.ClassRepo.Create(class); err != nil {
		return nil, err
	}
	return class, nil
}

// generateJoinCode UUID 截取 8 位大写，冲突则重试
func (s *ClassService) generateJoinCode() (string, error) {
	for i := 0; i < 5; i++ {
		code := strings.ToUpper(strings.ReplaceAll(model.GenerateUUID(), "-", "")[:8])
		exists, err := s.ClassRepo.JoinCodeExists(code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", errors.New("failed to generate a unique join code")
}

func (s *ClassService) ListByTeacher(teacherID string) ([]model.Class, error) {
	return s.ClassRepo.ListByTeacher(teacherID)
}

type ClassDetail struct {
	Class       *model.Class       `json:"class"`
	Enrollments []model.Enrollment `json:"enrollments"`
	Materials   []model.Material   `json:"materials"`
	HasPretest  bool               `json:"hasPretest"`
	HasPosttest bool               `json:"hasPosttest"`
}

// Detail 课堂详情：名册、课件和测验槽位占用情况。
// 教师看自己的课，学生必须已选课。
func (s *ClassService) Detail(classID string, claims *util.Claims) (*ClassDetail, error) {
	class, err := s.ClassRepo.FindByID(classID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrClassNotFound
		}
		return nil, err
	}

	if class.TeacherID != claims.UserID {
		if _, err := s.EnrollRepo.Find(classID, claims.UserID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrNotEnrolled
			}
			return nil, err
		}
	}

	enrollments, err := s.EnrollRepo.ListByClass(classID)
	if err != nil {
		return nil, err
	}
	materials, err := s.MaterialRepo.ListByClass(classID)
	if err != nil {
		return nil, err
	}

	detail := &ClassDetail{Class: class, Enrollments: enrollments, Materials: materials}
	if _, err := s.QuizRepo.FindByClassAndKind(classID, model.Pretest); err == nil {
		detail.HasPretest = true
	}
	if _, err := s.QuizRepo.FindByClassAndKind(classID, model.Posttest); err == nil {
		detail.HasPosttest = true
	}
	return detail, nil
}

func (s *ClassService) Update(classID, teacherID, name string) (*model.Class, error) {
	class, err := s.ownedClass(classID, teacherID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) != "" {
		class.Name = strings.TrimSpace(name)
	}
	if err := s.ClassRepo.Update(class); err != nil {
		return nil, err
	}
	return class, nil
}

func (s *ClassService) Delete(classID, teacherID string) error {
	if _, err := s.ownedClass(classID, teacherID); err != nil {
		return err
	}
	return s.ClassRepo.Delete(classID)
}

// Transition 执行教师指令，返回新状态与广播提示语
func (s *ClassService) Transition(classID, teacherID, action string) (model.ClassStatus, string, error) {
	target, ok := transitions[action]
	if !ok {
		return "", "", errors.New("unknown class action")
	}
	if _, err := s.ownedClass(classID, teacherID); err != nil {
		return "", "", err
	}
	if err := s.ClassRepo.UpdateStatus(classID, target); err != nil {
		return "", "", err
	}
	return target, statusMessages[target], nil
}

func (s *ClassService) ownedClass(classID, teacherID string) (*model.Class, error) {
	class, err := s.ClassRepo.FindOwned(classID, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 区分不存在和无权限
			if _, e := s.ClassRepo.FindByID(classID); e == nil {
				return nil, util.ErrPermissionDenied
			}
			return nil, util.ErrClassNotFound
		}
		return nil, err
	}
	return class, nil
}
