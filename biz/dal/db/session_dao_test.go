package db

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/calliope-music/calliope/biz/dal/model"
)

func TestSessionDAO_GetValid(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	dao := NewSessionDAO()
	ctx := context.Background()

	user := CreateTestUser(t, db, "alice")
	session := CreateTestSession(t, db, user.ID)

	t.Run("ValidToken", func(t *testing.T) {
		found, err := dao.GetValid(ctx, db, session.Token)
		if err != nil {
			t.Fatalf("GetValid failed: %v", err)
		}
		if found.UserID != user.ID {
			t.Errorf("Expected user %d, got %d", user.ID, found.UserID)
		}
	})

	t.Run("UnknownToken", func(t *testing.T) {
		_, err := dao.GetValid(ctx, db, "no-such-token")
		if err != gorm.ErrRecordNotFound {
			t.Errorf("Expected ErrRecordNotFound, got %v", err)
		}
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		expired := &model.Session{
			Token:     "expired-token",
			UserID:    user.ID,
			ExpiresAt: time.Now().Add(-time.Minute),
		}
		if err := dao.Create(ctx, db, expired); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		_, err := dao.GetValid(ctx, db, expired.Token)
		if err != gorm.ErrRecordNotFound {
			t.Errorf("Expected ErrRecordNotFound for expired session, got %v", err)
		}
	})

	t.Run("DeleteRevokes", func(t *testing.T) {
		if err := dao.Delete(ctx, db, session.Token); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		_, err := dao.GetValid(ctx, db, session.Token)
		if err != gorm.ErrRecordNotFound {
			t.Errorf("Expected ErrRecordNotFound after delete, got %v", err)
		}
	})
}

func TestSessionDAO_DeleteExpired(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	dao := NewSessionDAO()
	ctx := context.Background()

	user := CreateTestUser(t, db, "alice")
	live := CreateTestSession(t, db, user.ID)
	if err := dao.Create(ctx, db, &model.Session{
		Token:     "stale",
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(-time.Hour),
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := dao.DeleteExpired(ctx, db); err != nil {
		t.Fatalf("DeleteExpired failed: %v", err)
	}

	if _, err := dao.GetValid(ctx, db, live.Token); err != nil {
		t.Errorf("Live session must survive DeleteExpired: %v", err)
	}
	var count int64
	db.Model(&model.Session{}).Where("token = ?", "stale").Count(&count)
	if count != 0 {
		t.Error("Expected stale session to be removed")
	}
}
