package db

import (
	"context"
	"testing"

	"github.com/calliope-music/calliope/biz/dal/model"
)

func TestPlaylistDAO_Lifecycle(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	dao := NewPlaylistDAO()
	ctx := context.Background()

	user := CreateTestUser(t, db, "alice")

	playlist := &model.Playlist{UserID: user.ID, Title: "Road Trip"}
	if err := dao.Create(ctx, db, playlist); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if playlist.ID == 0 {
		t.Fatal("Expected ID to be set after creation")
	}

	t.Run("TitleExists", func(t *testing.T) {
		exists, err := dao.TitleExists(ctx, db, user.ID, "Road Trip")
		if err != nil {
			t.Fatalf("TitleExists failed: %v", err)
		}
		if !exists {
			t.Error("Expected existing title to be reported")
		}
	})

	t.Run("DuplicateTitleRejected", func(t *testing.T) {
		err := dao.Create(ctx, db, &model.Playlist{UserID: user.ID, Title: "Road Trip"})
		if err == nil {
			t.Error("Expected unique constraint violation")
		}
	})

	t.Run("AddAndListSongs", func(t *testing.T) {
		song := CreateTestSong(t, db, user.ID, "On The Road")
		if err := dao.AddSong(ctx, db, playlist.ID, song.ID); err != nil {
			t.Fatalf("AddSong failed: %v", err)
		}

		contains, err := dao.ContainsSong(ctx, db, playlist.ID, song.ID)
		if err != nil {
			t.Fatalf("ContainsSong failed: %v", err)
		}
		if !contains {
			t.Error("Expected song to be in playlist")
		}

		if err := dao.AddSong(ctx, db, playlist.ID, song.ID); err == nil {
			t.Error("Expected duplicate link to be rejected")
		}

		songs, err := dao.ListSongs(ctx, db, playlist.ID)
		if err != nil {
			t.Fatalf("ListSongs failed: %v", err)
		}
		if len(songs) != 1 || songs[0].Title != "On The Road" {
			t.Errorf("Unexpected playlist songs: %+v", songs)
		}
	})

	t.Run("DeleteKeepsSongs", func(t *testing.T) {
		if err := dao.Delete(ctx, db, playlist.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		songs, err := NewSongDAO().ListByUser(ctx, db, user.ID)
		if err != nil {
			t.Fatalf("ListByUser failed: %v", err)
		}
		if len(songs) == 0 {
			t.Error("Deleting a playlist must not delete library songs")
		}
	})
}
