package wellformed

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage is an in-memory implementation of ReportStorage.
// All data is lost when the process terminates.
type MemoryStorage struct {
	mu      sync.RWMutex
	reports map[ReportID]*StoredReport
	closed  bool
}

// MemoryStorageDriver is the driver for creating MemoryStorage instances.
type MemoryStorageDriver struct{}

func init() {
	RegisterStorageDriver(StorageDriverMemory, &MemoryStorageDriver{})
}

// Open creates a new MemoryStorage instance.
// The connection string is ignored for memory storage.
func (d *MemoryStorageDriver) Open(connectionString string) (ReportStorage, error) {
	return NewMemoryStorage(), nil
}

// NewMemoryStorage creates a new in-memory report storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		reports: make(map[ReportID]*StoredReport),
	}
}

// Save stores a report under a freshly generated ID.
func (s *MemoryStorage) Save(ctx context.Context, report *StoredReport) error {
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

	report.ID = generateReportID()
	if report.CheckedAt.IsZero() {
		report.CheckedAt = time.Now().UTC()
	}

	s.reports[report.ID] = copyStoredReport(report)
	return nil
}

// Get retrieves a report by ID.
func (s *MemoryStorage) Get(ctx context.Context, id ReportID) (*StoredReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	report, ok := s.reports[id]
	if !ok {
		return nil, NewReportNotFoundError(id)
	}
	return copyStoredReport(report), nil
}

// List returns reports matching the query, newest first.
func (s *MemoryStorage) List(ctx context.Context, query *ReportQuery) ([]*StoredReport, error) {
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

	results := make([]*StoredReport, 0, len(s.reports))
	for _, report := range s.reports {
		if matchesReportQuery(report, query) {
			results = append(results, copyStoredReport(report))
		}
	}

	sortReports(results)
	return paginate(results, query), nil
}

// Delete removes a report by ID.
func (s *MemoryStorage) Delete(ctx context.Context, id ReportID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	if _, ok := s.reports[id]; !ok {
		return NewReportNotFoundError(id)
	}
	delete(s.reports, id)
	return nil
}

// Close marks the storage as closed.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.reports = nil
	return nil
}
