package service

import (
	"testing"

	"smart_classroom_backend/internal/model"
)

func groupOf(n int) *int { return &n }

// 小组频道只接受该组成员的消息，REST 与 WebSocket 两条路径共用这条规则
func TestEnrollmentInGroup(t *testing.T) {
	cases := []struct {
		name     string
		enrolled *model.Enrollment
		group    int
		want     bool
	}{
		{"member of group", &model.Enrollment{GroupNumber: groupOf(2)}, 2, true},
		{"different group", &model.Enrollment{GroupNumber: groupOf(1)}, 2, false},
		{"unassigned student", &model.Enrollment{}, 1, false},
		{"nil enrollment", nil, 1, false},
	}
	for _, tc := range cases {
		if got := enrollmentInGroup(tc.enrolled, tc.group); got != tc.want {
			t.Errorf("%s: enrollmentInGroup = %v, want %v", tc.name, got, tc.want)
		}
	}
}
