package util

import (
	"testing"
	"time"

	"smart_classroom_backend/internal/model"
)

func TestGenerateAndParseJWT(t *testing.T) {
	user := &model.User{
		Name:   "Ada",
		Email:  "ada@example.com",
		Role:   model.Teacher,
		Gender: model.Female,
	}
	user.ID = "user-1"

	token, err := GenerateJWT(user, "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ParseJWT(token, "test-secret")
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %q, want user-1", claims.UserID)
	}
	if claims.Role != model.Teacher {
		t.Errorf("Role = %q, want TEACHER", claims.Role)
	}
	if claims.Name != "Ada" || claims.Email != "ada@example.com" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestParseJWTRejectsWrongSecret(t *testing.T) {
	user := &model.User{Role: model.Student}
	user.ID = "user-2"

	token, err := GenerateJWT(user, "secret-a", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	if _, err := ParseJWT(token, "secret-b"); err == nil {
		t.Fatal("token signed with another secret was accepted")
	}
}

func TestParseJWTRejectsExpired(t *testing.T) {
	user := &model.User{Role: model.Student}
	user.ID = "user-3"

	token, err := GenerateJWT(user, "test-secret", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	if _, err := ParseJWT(token, "test-secret"); err == nil {
		t.Fatal("expired token was accepted")
	}
}
