package wellformed

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// FilesystemStorage stores reports as JSON files on the filesystem.
//
// Directory structure:
//
//	<root>/
//	  <report-id>.json
//	  ...
type FilesystemStorage struct {
	mu     sync.RWMutex
	root   string
	closed bool
}

// FilesystemStorageDriver is the driver for creating FilesystemStorage instances.
type FilesystemStorageDriver struct{}

func init() {
	RegisterStorageDriver(StorageDriverFilesystem, &FilesystemStorageDriver{})
}

// Open creates a new FilesystemStorage instance.
// The connection string is the root directory path.
func (d *FilesystemStorageDriver) Open(connectionString string) (ReportStorage, error) {
	return NewFilesystemStorage(connectionString)
}

// NewFilesystemStorage creates a new filesystem-based report storage.
// The root directory will be created if it doesn't exist.
func NewFilesystemStorage(root string) (*FilesystemStorage, error) {
	if root == "" {
		return nil, &StorageError{Message: ErrMsgInvalidStorageRoot}
	}

	if err := os.MkdirAll(root, FilesystemDirPermissions); err != nil {
		return nil, &StorageError{
			Message: ErrMsgStorageDirectory,
			Name:    root,
			Cause:   err,
		}
	}

	return &FilesystemStorage{
		root: root,
	}, nil
}

// Root returns the storage root directory.
func (s *FilesystemStorage) Root() string {
	return s.root
}

// Save writes a report to <root>/<id>.json.
func (s *FilesystemStorage) Save(ctx context.Context, report *StoredReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if report == nil {
		return &StorageError{Message: ErrMsgNilReport}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	stored := copyStoredReport(report)
	stored.ID = generateReportID()
	if stored.CheckedAt.IsZero() {
		stored.CheckedAt = time.Now().UTC()
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return &StorageError{Message: ErrMsgStorageWrite, Name: string(stored.ID), Cause: err}
	}

	// Write to a temp file then rename so readers never see partial files.
	filename := s.reportPath(stored.ID)
	tmp := filename + FilesystemTempSuffix
	if err := os.WriteFile(tmp, data, FilesystemFilePermissions); err != nil {
		return &StorageError{Message: ErrMsgStorageWrite, Name: filename, Cause: err}
	}
	if err := os.Rename(tmp, filename); err != nil {
		_ = os.Remove(tmp)
		return &StorageError{Message: ErrMsgStorageWrite, Name: filename, Cause: err}
	}

	report.ID = stored.ID
	report.CheckedAt = stored.CheckedAt
	return nil
}

// Get retrieves a report by ID.
func (s *FilesystemStorage) Get(ctx context.Context, id ReportID) (*StoredReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validReportID(id) {
		return nil, NewReportNotFoundError(id)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	return s.loadReport(s.reportPath(id), id)
}

// List scans the root directory and returns matching reports, newest first.
func (s *FilesystemStorage) List(ctx context.Context, query *ReportQuery) ([]*StoredReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	if query == nil {
		query = &ReportQuery{}
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, &StorageError{Message: ErrMsgStorageRead, Name: s.root, Cause: err}
	}

	results := make([]*StoredReport, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), FilesystemReportSuffix) {
			continue
		}
		id := ReportID(strings.TrimSuffix(entry.Name(), FilesystemReportSuffix))
		if !validReportID(id) {
			continue
		}

		report, err := s.loadReport(filepath.Join(s.root, entry.Name()), id)
		if err != nil {
			return nil, err
		}
		if matchesReportQuery(report, query) {
			results = append(results, report)
		}
	}

	sortReports(results)
	return paginate(results, query), nil
}

// Delete removes a report file.
func (s *FilesystemStorage) Delete(ctx context.Context, id ReportID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !validReportID(id) {
		return NewReportNotFoundError(id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	if err := os.Remove(s.reportPath(id)); err != nil {
		if os.IsNotExist(err) {
			return NewReportNotFoundError(id)
		}
		return &StorageError{Message: ErrMsgStorageWrite, Name: string(id), Cause: err}
	}
	return nil
}

// Close marks the storage as closed.
func (s *FilesystemStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

func (s *FilesystemStorage) reportPath(id ReportID) string {
	return filepath.Join(s.root, string(id)+FilesystemReportSuffix)
}

func (s *FilesystemStorage) loadReport(filename string, id ReportID) (*StoredReport, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewReportNotFoundError(id)
		}
		return nil, &StorageError{Message: ErrMsgStorageRead, Name: filename, Cause: err}
	}

	var report StoredReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, &StorageError{Message: ErrMsgStorageDecode, Name: filename, Cause: err}
	}
	return &report, nil
}
