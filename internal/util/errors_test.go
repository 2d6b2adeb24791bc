package util

import (
	"testing"
	"unicode"
)

// 哨兵错误统一英文文案，方便日志检索与前端匹配
func TestSentinelErrorMessages(t *testing.T) {
	sentinels := []error{
		ErrEmailRegistered,
		ErrInvalidCredentials,
		ErrPermissionDenied,
		ErrClassNotFound,
		ErrNotEnrolled,
		ErrAlreadyEnrolled,
		ErrQuizNotFound,
		ErrQuizAlreadyTaken,
		ErrInvalidQuizKind,
		ErrEmptyMessage,
		ErrMessageNotFound,
		ErrInvalidGroupCount,
		ErrInvalidGroupNumber,
		ErrNotGroupMember,
	}
	for _, err := range sentinels {
		msg := err.Error()
		if msg == "" {
			t.Error("sentinel error has empty message")
			continue
		}
		for _, r := range msg {
			if r > unicode.MaxASCII {
				t.Errorf("sentinel %q mixes registers", msg)
				break
			}
		}
	}
}
