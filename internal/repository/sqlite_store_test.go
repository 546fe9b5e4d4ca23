package repository_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"task-tracker/internal/model"
	"task-tracker/internal/repository"
)

func savedSQLiteSnapshot(t *testing.T) *repository.SQLiteStore {
	t.Helper()
	store := repository.NewSQLiteStore(filepath.Join(t.TempDir(), "state.db"), quietLogger())
	if err := store.Save(context.Background(), sampleSnapshot(t)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	return store
}

func execSQL(t *testing.T, path, stmt string) {
	t.Helper()
	db, err := repository.NewDB(path, quietLogger())
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("DB: %v", err)
	}
	defer sqlDB.Close()
	if err := db.Exec(stmt).Error; err != nil {
		t.Fatalf("exec %q: %v", stmt, err)
	}
}

func TestSQLiteStore_LoadRejectsTamperedData(t *testing.T) {
	tests := []struct {
		name string
		stmt string
	}{
		{"category index out of range", "UPDATE task_records SET category_index = 9"},
		{"current user out of range", "UPDATE snapshot_meta SET current_user_index = 5"},
		{"future version", "UPDATE snapshot_meta SET version = 2"},
		{"wrong format", "UPDATE snapshot_meta SET format = 'pickle'"},
		{"missing meta row", "DELETE FROM snapshot_meta"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := savedSQLiteSnapshot(t)
			execSQL(t, store.Path(), tt.stmt)

			_, err := store.Load(context.Background())
			if !errors.Is(err, model.ErrDeserialization) {
				t.Fatalf("expected ErrDeserialization, got %v", err)
			}
		})
	}
}

func TestSQLiteStore_LoadForeignDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.db")
	execSQL(t, path, "CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT)")

	_, err := repository.NewSQLiteStore(path, quietLogger()).Load(context.Background())
	if !errors.Is(err, model.ErrDeserialization) {
		t.Fatalf("expected ErrDeserialization, got %v", err)
	}
}

func TestSQLiteStore_NoCurrentUser(t *testing.T) {
	store := savedSQLiteSnapshot(t)
	execSQL(t, store.Path(), "UPDATE snapshot_meta SET current_user_index = NULL")

	snap, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap.CurrentUser != nil {
		t.Fatalf("expected no current user, got %v", snap.CurrentUser)
	}
}

func TestSQLiteStore_RoundTripKeepsRawBytes(t *testing.T) {
	ctx := context.Background()
	store := repository.NewSQLiteStore(filepath.Join(t.TempDir(), "state.db"), quietLogger())

	want := sampleSnapshot(t)
	want.Tasks[0].Title = "T\xfe"
	want.Categories[0].Name = "W\xff"
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	assertSnapshotsEqual(t, want, got)
}
