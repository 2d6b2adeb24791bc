package model

import "testing"

func TestValidStatus(t *testing.T) {
	valid := []ClassStatus{StatusWaitingRoom, StatusMainSession, StatusGroupSession, StatusPosttest, StatusEnded}
	for _, s := range valid {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = false", s)
		}
	}

	invalid := []ClassStatus{"", "PAUSED", "waiting_room", "MAIN"}
	for _, s := range invalid {
		if ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = true", s)
		}
	}
}

func TestValidQuizKind(t *testing.T) {
	if !ValidQuizKind(Pretest) || !ValidQuizKind(Posttest) {
		t.Error("defined kinds rejected")
	}
	if ValidQuizKind("") || ValidQuizKind("MIDTERM") || ValidQuizKind("pretest") {
		t.Error("undefined kind accepted")
	}
}

func TestQuestionOptionList(t *testing.T) {
	q := Question{Options: []byte(`["red","green","blue"]`)}
	opts := q.OptionList()
	if len(opts) != 3 || opts[1] != "green" {
		t.Fatalf("OptionList = %v", opts)
	}

	empty := Question{}
	if got := empty.OptionList(); len(got) != 0 {
		t.Fatalf("OptionList on empty = %v", got)
	}
}
