package wellformed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageRegistry(t *testing.T) {
	drivers := ListStorageDrivers()
	assert.Equal(t, []string{StorageDriverFilesystem, StorageDriverMemory, StorageDriverPostgres}, drivers)

	t.Run("open memory", func(t *testing.T) {
		storage, err := OpenStorage(StorageDriverMemory, "")
		require.NoError(t, err)
		require.NoError(t, storage.Close())
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := OpenStorage("bogus", "")
		require.Error(t, err)
		var storageErr *StorageError
		require.True(t, errors.As(err, &storageErr))
		assert.Equal(t, ErrMsgStorageDriverNotFound, storageErr.Message)
		assert.Equal(t, "bogus", storageErr.Name)
	})

	t.Run("duplicate registration panics", func(t *testing.T) {
		assert.Panics(t, func() { RegisterStorageDriver(StorageDriverMemory, &MemoryStorageDriver{}) })
	})

	t.Run("nil driver panics", func(t *testing.T) {
		assert.Panics(t, func() { RegisterStorageDriver("nil-driver", nil) })
	})
}

func TestNewStoredReport(t *testing.T) {
	t.Run("mismatch position", func(t *testing.T) {
		input := "<div>\n</p>"
		stored := NewStoredReport("page.html", input, Check(input), "ci", "nightly")
		assert.Equal(t, "page.html", stored.Name)
		assert.False(t, stored.Valid)
		assert.Equal(t, OutcomeMismatchedTags, stored.Outcome)
		assert.Equal(t, 2, stored.Line)
		assert.Equal(t, 0, stored.Column)
		assert.Equal(t, HashInput(input), stored.InputHash)
		assert.Equal(t, len(input), stored.InputSize)
		assert.Equal(t, []string{"ci", "nightly"}, stored.Tags)
		assert.Empty(t, stored.ID)
	})

	t.Run("unclosed uses innermost element", func(t *testing.T) {
		stored := NewStoredReport("x", "<a>\n <b>", Check("<a>\n <b>"))
		assert.Equal(t, 2, stored.Line)
		assert.Equal(t, 1, stored.Column)
		assert.Nil(t, stored.Tags)
	})

	t.Run("valid has no position", func(t *testing.T) {
		stored := NewStoredReport("x", "<a></a>", Check("<a></a>"))
		assert.True(t, stored.Valid)
		assert.Zero(t, stored.Line)
		assert.Zero(t, stored.Column)
	})
}

func TestStorageError(t *testing.T) {
	cause := os.ErrPermission
	err := &StorageError{Message: ErrMsgStorageWrite, Name: "r1", Cause: cause}
	assert.Equal(t, ErrMsgStorageWrite+": r1: "+cause.Error(), err.Error())
	assert.True(t, errors.Is(err, cause))

	assert.True(t, IsReportNotFound(NewReportNotFoundError("abc")))
	assert.False(t, IsReportNotFound(NewStorageClosedError()))
	assert.False(t, IsReportNotFound(nil))
}

// testReportStorage runs the behavior every ReportStorage must share.
func testReportStorage(t *testing.T, open func(t *testing.T) ReportStorage) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	seed := func(t *testing.T, s ReportStorage) []*StoredReport {
		t.Helper()
		inputs := []struct {
			name  string
			input string
			tags  []string
		}{
			{"pages/index.html", "<html></html>", []string{"ci"}},
			{"pages/about.html", "<div>", []string{"ci", "nightly"}},
			{"fragments/nav.html", "<ul></li>", []string{"nightly"}},
		}
		var saved []*StoredReport
		for i, in := range inputs {
			r := NewStoredReport(in.name, in.input, Check(in.input), in.tags...)
			r.CheckedAt = base.Add(time.Duration(i) * time.Minute)
			require.NoError(t, s.Save(ctx, r))
			saved = append(saved, r)
		}
		return saved
	}

	t.Run("save assigns id and get round trips", func(t *testing.T) {
		s := open(t)
		r := NewStoredReport("a.html", "<p>", Check("<p>"), "x")
		require.NoError(t, s.Save(ctx, r))
		require.NotEmpty(t, r.ID)
		assert.False(t, r.CheckedAt.IsZero())

		got, err := s.Get(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, r.ID, got.ID)
		assert.Equal(t, r.Name, got.Name)
		assert.Equal(t, r.Valid, got.Valid)
		assert.Equal(t, r.Outcome, got.Outcome)
		assert.Equal(t, r.Reason, got.Reason)
		assert.Equal(t, r.Line, got.Line)
		assert.Equal(t, r.Column, got.Column)
		assert.Equal(t, r.InputHash, got.InputHash)
		assert.Equal(t, r.InputSize, got.InputSize)
		assert.Equal(t, r.Tags, got.Tags)
		assert.True(t, r.CheckedAt.Equal(got.CheckedAt))
	})

	t.Run("save ignores caller id", func(t *testing.T) {
		s := open(t)
		r := NewStoredReport("a.html", "<p></p>", Check("<p></p>"))
		r.ID = "caller-chosen"
		require.NoError(t, s.Save(ctx, r))
		assert.NotEqual(t, ReportID("caller-chosen"), r.ID)
	})

	t.Run("save nil", func(t *testing.T) {
		s := open(t)
		assert.Error(t, s.Save(ctx, nil))
	})

	t.Run("get missing", func(t *testing.T) {
		s := open(t)
		_, err := s.Get(ctx, generateReportID())
		assert.True(t, IsReportNotFound(err))

		_, err = s.Get(ctx, "../../etc/passwd")
		assert.True(t, IsReportNotFound(err))
	})

	t.Run("list newest first", func(t *testing.T) {
		s := open(t)
		saved := seed(t, s)

		all, err := s.List(ctx, nil)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, saved[2].ID, all[0].ID)
		assert.Equal(t, saved[1].ID, all[1].ID)
		assert.Equal(t, saved[0].ID, all[2].ID)
	})

	t.Run("list filters", func(t *testing.T) {
		s := open(t)
		saved := seed(t, s)
		valid := true
		invalid := false

		tests := []struct {
			name  string
			query *ReportQuery
			want  []ReportID
		}{
			{"name prefix", &ReportQuery{NamePrefix: "pages/"}, []ReportID{saved[1].ID, saved[0].ID}},
			{"valid", &ReportQuery{Valid: &valid}, []ReportID{saved[0].ID}},
			{"invalid", &ReportQuery{Valid: &invalid}, []ReportID{saved[2].ID, saved[1].ID}},
			{"outcome", &ReportQuery{Outcome: OutcomeUnclosedTags}, []ReportID{saved[1].ID}},
			{"single tag", &ReportQuery{Tags: []string{"nightly"}}, []ReportID{saved[2].ID, saved[1].ID}},
			{"all tags", &ReportQuery{Tags: []string{"ci", "nightly"}}, []ReportID{saved[1].ID}},
			{"limit", &ReportQuery{Limit: 1}, []ReportID{saved[2].ID}},
			{"offset", &ReportQuery{Offset: 2}, []ReportID{saved[0].ID}},
			{"offset past end", &ReportQuery{Offset: 10}, []ReportID{}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := s.List(ctx, tt.query)
				require.NoError(t, err)
				ids := make([]ReportID, 0, len(got))
				for _, r := range got {
					ids = append(ids, r.ID)
				}
				assert.Equal(t, tt.want, ids)
			})
		}
	})

	t.Run("delete", func(t *testing.T) {
		s := open(t)
		saved := seed(t, s)

		require.NoError(t, s.Delete(ctx, saved[0].ID))
		_, err := s.Get(ctx, saved[0].ID)
		assert.True(t, IsReportNotFound(err))

		err = s.Delete(ctx, saved[0].ID)
		assert.True(t, IsReportNotFound(err))

		remaining, err := s.List(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, remaining, 2)
	})

	t.Run("canceled context", func(t *testing.T) {
		s := open(t)
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		assert.ErrorIs(t, s.Save(canceled, NewStoredReport("a", "", Check(""))), context.Canceled)
		_, err := s.List(canceled, nil)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestMemoryStorage(t *testing.T) {
	testReportStorage(t, func(t *testing.T) ReportStorage {
		s := NewMemoryStorage()
		t.Cleanup(func() { _ = s.Close() })
		return s
	})

	t.Run("closed", func(t *testing.T) {
		s := NewMemoryStorage()
		require.NoError(t, s.Close())
		_, err := s.List(context.Background(), nil)
		var storageErr *StorageError
		require.True(t, errors.As(err, &storageErr))
		assert.Equal(t, ErrMsgStorageClosed, storageErr.Message)
	})

	t.Run("stored copies are isolated", func(t *testing.T) {
		s := NewMemoryStorage()
		r := NewStoredReport("a", "<p>", Check("<p>"), "tag")
		require.NoError(t, s.Save(context.Background(), r))
		r.Tags[0] = "changed"

		got, err := s.Get(context.Background(), r.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"tag"}, got.Tags)
	})
}

func TestFilesystemStorage(t *testing.T) {
	testReportStorage(t, func(t *testing.T) ReportStorage {
		s, err := NewFilesystemStorage(t.TempDir())
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})

	t.Run("empty root", func(t *testing.T) {
		_, err := NewFilesystemStorage("")
		require.Error(t, err)
	})

	t.Run("creates root and one file per report", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "nested", "reports")
		s, err := NewFilesystemStorage(root)
		require.NoError(t, err)
		assert.Equal(t, root, s.Root())

		r := NewStoredReport("a", "<p></p>", Check("<p></p>"))
		require.NoError(t, s.Save(context.Background(), r))

		entries, err := os.ReadDir(root)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, string(r.ID)+FilesystemReportSuffix, entries[0].Name())
	})

	t.Run("ignores foreign files", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), FilesystemFilePermissions))
		require.NoError(t, os.WriteFile(filepath.Join(root, "other.json"), []byte("{}"), FilesystemFilePermissions))

		s, err := NewFilesystemStorage(root)
		require.NoError(t, err)
		reports, err := s.List(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, reports)
	})

	t.Run("corrupt report file", func(t *testing.T) {
		root := t.TempDir()
		id := generateReportID()
		require.NoError(t, os.WriteFile(filepath.Join(root, string(id)+FilesystemReportSuffix), []byte("{"), FilesystemFilePermissions))

		s, err := NewFilesystemStorage(root)
		require.NoError(t, err)
		_, err = s.Get(context.Background(), id)
		var storageErr *StorageError
		require.True(t, errors.As(err, &storageErr))
		assert.Equal(t, ErrMsgStorageDecode, storageErr.Message)
	})

	t.Run("opened through the registry", func(t *testing.T) {
		s, err := OpenStorage(StorageDriverFilesystem, t.TempDir())
		require.NoError(t, err)
		assert.IsType(t, &FilesystemStorage{}, s)
	})
}
