package service

import "testing"

func TestPlanAutoAssignBalancesGroups(t *testing.T) {
	students := []string{"s1", "s2", "s3", "s4", "s5"}
	plan := planAutoAssign(students, 2, nil)

	if len(plan) != 5 {
		t.Fatalf("plan covers %d students, want 5", len(plan))
	}

	sizes := make(map[int]int)
	for id, group := range plan {
		if group < 1 || group > 2 {
			t.Fatalf("student %s assigned to group %d, want 1..2", id, group)
		}
		sizes[group]++
	}
	if sizes[1] != 3 || sizes[2] != 2 {
		t.Fatalf("group sizes = %v, want map[1:3 2:2]", sizes)
	}
}

func TestPlanAutoAssignSingleGroup(t *testing.T) {
	plan := planAutoAssign([]string{"a", "b", "c"}, 1, nil)
	for id, group := range plan {
		if group != 1 {
			t.Fatalf("student %s assigned to group %d, want 1", id, group)
		}
	}
}

func TestPlanAutoAssignMoreGroupsThanStudents(t *testing.T) {
	plan := planAutoAssign([]string{"a", "b"}, 5, nil)
	if len(plan) != 2 {
		t.Fatalf("plan covers %d students, want 2", len(plan))
	}
	for _, group := range plan {
		if group < 1 || group > 5 {
			t.Fatalf("group %d out of range", group)
		}
	}
}

func TestPlanAutoAssignEmpty(t *testing.T) {
	if plan := planAutoAssign(nil, 3, nil); len(plan) != 0 {
		t.Fatalf("expected empty plan, got %v", plan)
	}
}

func TestPlanAutoAssignUsesShuffle(t *testing.T) {
	students := []string{"s1", "s2", "s3", "s4"}
	reverse := func(n int, swap func(i, j int)) {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			swap(i, j)
		}
	}
	plan := planAutoAssign(students, 2, reverse)

	// 逆序后轮转：s4→1, s3→2, s2→1, s1→2
	want := map[string]int{"s4": 1, "s3": 2, "s2": 1, "s1": 2}
	for id, group := range want {
		if plan[id] != group {
			t.Errorf("student %s in group %d, want %d", id, plan[id], group)
		}
	}
}
