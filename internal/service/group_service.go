package service

import (
	"errors"
	"math/rand"
	"sort"

	"smart_classroom_backend/internal/model"
	"smart_classroom_backend/internal/repository"
	"smart_classroom_backend/internal/util"

	"gorm.io/gorm"
)

type GroupService struct {
	ClassRepo  *repository.ClassRepository
	EnrollRepo *repository.EnrollmentRepository
}

func NewGroupService(classRepo *repository.ClassRepository, enrollRepo *repository.EnrollmentRepository) *GroupService {
	return &GroupService{ClassRepo: classRepo, EnrollRepo: enrollRepo}
}

type GroupAssignment struct {
	StudentID   string `json:"studentId" binding:"required"`
	GroupNumber *int   `json:"groupNumber"` // nil 表示撤销分组
}

// Assign 教师手动指定分组，整批校验后逐条写入
func (s *GroupService) Assign(classID, teacherID string, assignments []GroupAssignment) error {
	if _, err := s.ownedClass(classID, teacherID); err != nil {
		return err
	}

	for _, a := range assignments {
		if a.GroupNumber != nil && *a.GroupNumber <= 0 {
			return util.ErrInvalidGroupNumber
		}
		if _, err := s.EnrollRepo.Find(classID, a.StudentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrNotEnrolled
			}
			return err
		}
	}

	for _, a := range assignments {
		if err := s.EnrollRepo.UpdateGroupNumber(classID, a.StudentID, a.GroupNumber); err != nil {
			return err
		}
	}
	return nil
}

// AutoAssign 随机把未分组学生轮转填入 groupCount 个组，
// 已分组的学生保持原组不动。
func (s *GroupService) AutoAssign(classID, teacherID string, groupCount int) ([]model.Enrollment, error) {
	if groupCount <= 0 {
		return nil, util.ErrInvalidGroupCount
	}
	if _, err := s.ownedClass(classID, teacherID); err != nil {
		return nil, err
	}

	enrollments, err := s.EnrollRepo.ListByClass(classID)
	if err != nil {
		return nil, err
	}

	var unassigned []string
	for _, e := range enrollments {
		if e.GroupNumber == nil {
			unassigned = append(unassigned, e.StudentID)
		}
	}

	plan := planAutoAssign(unassigned, groupCount, rand.Shuffle)
	for studentID, groupNumber := range plan {
		n := groupNumber
		if err := s.EnrollRepo.UpdateGroupNumber(classID, studentID, &n); err != nil {
			return nil, err
		}
	}

	return s.EnrollRepo.ListByClass(classID)
}

// planAutoAssign 洗牌后轮转分配，返回 studentID -> groupNumber
func planAutoAssign(studentIDs []string, groupCount int, shuffle func(n int, swap func(i, j int))) map[string]int {
	shuffled := make([]string, len(studentIDs))
	copy(shuffled, studentIDs)
	if shuffle != nil {
		shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
	}

	plan := make(map[string]int, len(shuffled))
	for i, id := range shuffled {
		plan[id] = i%groupCount + 1
	}
	return plan
}

// GroupView 分组视图，组号升序，未分组学生单独列出
type GroupView struct {
	GroupNumber int                `json:"groupNumber"`
	Members     []model.Enrollment `json:"members"`
}

type GroupOverview struct {
	Groups     []GroupView        `json:"groups"`
	Unassigned []model.Enrollment `json:"unassigned"`
}

func (s *GroupService) Overview(classID string) (*GroupOverview, error) {
	enrollments, err := s.EnrollRepo.ListByClass(classID)
	if err != nil {
		return nil, err
	}

	byGroup := make(map[int][]model.Enrollment)
	overview := &GroupOverview{}
	for _, e := range enrollments {
		if e.GroupNumber == nil {
			overview.Unassigned = append(overview.Unassigned, e)
			continue
		}
		byGroup[*e.GroupNumber] = append(byGroup[*e.GroupNumber], e)
	}

	numbers := make([]int, 0, len(byGroup))
	for n := range byGroup {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	for _, n := range numbers {
		overview.Groups = append(overview.Groups, GroupView{GroupNumber: n, Members: byGroup[n]})
	}
	return overview, nil
}

// MemberOfGroup 学生是否属于指定小组
func (s *GroupService) MemberOfGroup(classID, studentID string, groupNumber int) (bool, error) {
	e, err := s.EnrollRepo.Find(classID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return e.GroupNumber != nil && *e.GroupNumber == groupNumber, nil
}

func (s *GroupService) ownedClass(classID, teacherID string) (*model.Class, error) {
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
