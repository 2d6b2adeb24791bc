package repository

import (
	"strings"
	"testing"

	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

// dryRunDB 只生成 SQL 不执行，并捕获删除语句用于断言
func dryRunDB(t *testing.T) (*gorm.DB, *string) {
	t.Helper()
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}
	captured := new(string)
	err = db.Callback().Delete().After("gorm:delete").Register("capture_delete_sql", func(tx *gorm.DB) {
		*captured = tx.Statement.SQL.String()
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}
	return db, captured
}

// 删除聊天消息必须物理删除，不能落成 deleted_at 墓碑更新
func TestChatDeleteIssuesHardDelete(t *testing.T) {
	db, sql := dryRunDB(t)
	repo := NewChatRepository(db)

	if err := repo.Delete("msg-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !strings.HasPrefix(*sql, "DELETE") {
		t.Fatalf("expected DELETE statement, got %q", *sql)
	}
	if strings.Contains(*sql, "deleted_at") {
		t.Fatalf("delete must not touch deleted_at, got %q", *sql)
	}
}
