package service

import (
	"testing"

	"smart_classroom_backend/internal/model"
)

func enrollmentWithScores(pretest, posttest *float64) model.Enrollment {
	return model.Enrollment{PretestScore: pretest, PosttestScore: posttest}
}

func f(v float64) *float64 { return &v }

func TestScoreAccumulatorAverages(t *testing.T) {
	acc := newAccumulator()
	acc.add(enrollmentWithScores(f(40), f(80)))
	acc.add(enrollmentWithScores(f(60), f(90)))

	stats := acc.stats()
	if stats.Count != 2 || stats.PretestTaken != 2 || stats.PosttestTaken != 2 {
		t.Fatalf("counts = %+v", stats)
	}
	if *stats.AvgPretestScore != 50 {
		t.Errorf("avg pretest = %v, want 50", *stats.AvgPretestScore)
	}
	if *stats.AvgPosttest != 85 {
		t.Errorf("avg posttest = %v, want 85", *stats.AvgPosttest)
	}
	if *stats.AvgGain != 35 {
		t.Errorf("avg gain = %v, want 35", *stats.AvgGain)
	}
}

func TestScoreAccumulatorSkipsMissingScores(t *testing.T) {
	acc := newAccumulator()
	acc.add(enrollmentWithScores(f(66.7), nil))
	acc.add(enrollmentWithScores(nil, nil))

	stats := acc.stats()
	if stats.Count != 2 {
		t.Fatalf("count = %d, want 2", stats.Count)
	}
	if stats.PretestTaken != 1 || stats.PosttestTaken != 0 {
		t.Fatalf("taken = (%d, %d), want (1, 0)", stats.PretestTaken, stats.PosttestTaken)
	}
	if stats.AvgPosttest != nil {
		t.Error("avg posttest should be nil when nobody took it")
	}
	// 提升幅度只统计前后测都完成的学生
	if stats.AvgGain != nil {
		t.Error("avg gain should be nil without paired scores")
	}
}

func TestScoreAccumulatorRounding(t *testing.T) {
	acc := newAccumulator()
	acc.add(enrollmentWithScores(f(33.3), nil))
	acc.add(enrollmentWithScores(f(33.4), nil))
	acc.add(enrollmentWithScores(f(33.3), nil))

	stats := acc.stats()
	if *stats.AvgPretestScore != 33.3 {
		t.Errorf("avg pretest = %v, want 33.3", *stats.AvgPretestScore)
	}
}
