package service

import (
	"errors"
	"math"

	"smart_classroom_backend/internal/model"
	"smart_classroom_backend/internal/repository"
	"smart_classroom_backend/internal/util"

	"gorm.io/gorm"
)

type AnalyticsService struct {
	ClassRepo  *repository.ClassRepository
	EnrollRepo *repository.EnrollmentRepository
}

func NewAnalyticsService(classRepo *repository.ClassRepository, enrollRepo *repository.EnrollmentRepository) *AnalyticsService {
	return &AnalyticsService{ClassRepo: classRepo, EnrollRepo: enrollRepo}
}

// ScoreStats 一组学生的前后测均分统计
type ScoreStats struct {
	Count           int      `json:"count"`
	PretestTaken    int      `json:"pretestTaken"`
	PosttestTaken   int      `json:"posttestTaken"`
	AvgPretestScore *float64 `json:"avgPretestScore"`
	AvgPosttest     *float64 `json:"avgPosttestScore"`
	AvgGain         *float64 `json:"avgGain"`
}

// StudentScore 单个学生的前后测成绩与提升幅度
type StudentScore struct {
	StudentID     string       `json:"studentId"`
	Name          string       `json:"name"`
	Gender        model.Gender `json:"gender"`
	GroupNumber   *int         `json:"groupNumber"`
	PretestScore  *float64     `json:"pretestScore"`
	PosttestScore *float64     `json:"posttestScore"`
	Improvement   *float64     `json:"improvement"`
}

// ClassAnalytics 逐学生明细、全班总览加性别维度拆分
type ClassAnalytics struct {
	ClassID  string                       `json:"classId"`
	Students []StudentScore               `json:"students"`
	Overall  ScoreStats                   `json:"overall"`
	ByGender map[model.Gender]*ScoreStats `json:"byGender"`
}

// Report 教师查看课堂学习成效报表
func (s *AnalyticsService) Report(classID, teacherID string) (*ClassAnalytics, error) {
	if _, err := s.ClassRepo.FindOwned(classID, teacherID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if _, e := s.ClassRepo.FindByID(classID); e == nil {
				return nil, util.ErrPermissionDenied
			}
			return nil, util.ErrClassNotFound
		}
		return nil, err
	}

	enrollments, err := s.EnrollRepo.ListByClass(classID)
	if err != nil {
		return nil, err
	}

	report := &ClassAnalytics{
		ClassID:  classID,
		ByGender: make(map[model.Gender]*ScoreStats),
	}

	overall := newAccumulator()
	byGender := make(map[model.Gender]*scoreAccumulator)
	for _, e := range enrollments {
		overall.add(e)
		gender := model.Other
		name := ""
		if e.Student != nil {
			gender = e.Student.Gender
			name = e.Student.Name
		}
		acc, ok := byGender[gender]
		if !ok {
			acc = newAccumulator()
			byGender[gender] = acc
		}
		acc.add(e)

		row := StudentScore{
			StudentID:     e.StudentID,
			Name:          name,
			Gender:        gender,
			GroupNumber:   e.GroupNumber,
			PretestScore:  e.PretestScore,
			PosttestScore: e.PosttestScore,
		}
		if e.PretestScore != nil && e.PosttestScore != nil {
			gain := round1(*e.PosttestScore - *e.PretestScore)
			row.Improvement = &gain
		}
		report.Students = append(report.Students, row)
	}

	report.Overall = overall.stats()
	for gender, acc := range byGender {
		stats := acc.stats()
		report.ByGender[gender] = &stats
	}
	return report, nil
}

type scoreAccumulator struct {
	count         int
	pretestSum    float64
	pretestCount  int
	posttestSum   float64
	posttestCount int
	gainSum       float64
	gainCount     int
}

func newAccumulator() *scoreAccumulator {
	return &scoreAccumulator{}
}

func (a *scoreAccumulator) add(e model.Enrollment) {
	a.count++
	if e.PretestScore != nil {
		a.pretestSum += *e.PretestScore
		a.pretestCount++
	}
	if e.PosttestScore != nil {
		a.posttestSum += *e.PosttestScore
		a.posttestCount++
	}
	if e.PretestScore != nil && e.PosttestScore != nil {
		a.gainSum += *e.PosttestScore - *e.PretestScore
		a.gainCount++
	}
}

func (a *scoreAccumulator) stats() ScoreStats {
	stats := ScoreStats{
		Count:         a.count,
		PretestTaken:  a.pretestCount,
		PosttestTaken: a.posttestCount,
	}
	if a.pretestCount > 0 {
		avg := round1(a.pretestSum / float64(a.pretestCount))
		stats.AvgPretestScore = &avg
	}
	if a.posttestCount > 0 {
		avg := round1(a.posttestSum / float64(a.posttestCount))
		stats.AvgPosttest = &avg
	}
	if a.gainCount > 0 {
		avg := round1(a.gainSum / float64(a.gainCount))
		stats.AvgGain = &avg
	}
	return stats
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
