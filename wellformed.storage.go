package wellformed

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ReportID is a unique identifier for a stored report.
type ReportID string

// StoredReport is a validation report persisted by a storage backend.
// The validated input itself is never stored, only its hash and size.
type StoredReport struct {
	// ID is set by the storage implementation on Save.
	ID ReportID `json:"id"`

	// Name identifies what was validated (a file path, a request label).
	Name string `json:"name"`

	Valid   bool    `json:"valid"`
	Outcome Outcome `json:"outcome"`
	Reason  string  `json:"reason"`

	// Line and Column locate the offending close tag, or the innermost
	// unclosed element. Zero when the report has no position.
	Line   int `json:"line"`
	Column int `json:"column"`

	// InputHash is the hex SHA-256 of the validated input.
	InputHash string `json:"input_hash"`
	InputSize int    `json:"input_size"`

	// Tags for categorization and querying.
	Tags []string `json:"tags,omitempty"`

	// CheckedAt is set by the storage implementation when zero.
	CheckedAt time.Time `json:"checked_at"`
}

// NewStoredReport builds a storable record of report for the given input.
func NewStoredReport(name, input string, report *Report, tags ...string) *StoredReport {
	stored := &StoredReport{
		Name:      name,
		Valid:     report.Valid,
		Outcome:   report.Outcome,
		Reason:    report.Reason,
		InputHash: HashInput(input),
		InputSize: report.InputSize,
		Tags:      copyStringSlice(tags),
	}

	switch {
	case report.Position != nil:
		stored.Line = report.Position.Line
		stored.Column = report.Position.Column
	case len(report.Unclosed) > 0:
		stored.Line = report.Unclosed[0].Position.Line
		stored.Column = report.Unclosed[0].Position.Column
	}
	return stored
}

// ReportQuery defines filters for listing reports.
type ReportQuery struct {
	// NamePrefix filters to names starting with this prefix.
	NamePrefix string

	// Valid filters by validity when non-nil.
	Valid *bool

	// Outcome filters by a single outcome.
	Outcome Outcome

	// Tags filters to reports having ALL specified tags.
	Tags []string

	// Limit is the maximum number of results (0 = no limit).
	Limit int

	// Offset is the number of results to skip (for pagination).
	Offset int
}

// ReportStorage is the interface for pluggable report storage backends.
// Implementations must be safe for concurrent use.
type ReportStorage interface {
	// Save stores a report. The report's ID is always assigned by the
	// storage; CheckedAt is assigned when zero.
	Save(ctx context.Context, report *StoredReport) error

	// Get retrieves a report by ID.
	// Returns a not found StorageError if the ID doesn't exist.
	Get(ctx context.Context, id ReportID) (*StoredReport, error)

	// List returns reports matching the query, newest first.
	List(ctx context.Context, query *ReportQuery) ([]*StoredReport, error)

	// Delete removes a report by ID.
	Delete(ctx context.Context, id ReportID) error

	// Close releases any resources held by the storage.
	// After Close, the storage should not be used.
	Close() error
}

// StorageDriver is a factory for creating storage instances.
// Drivers register themselves during init().
type StorageDriver interface {
	// Open creates a new storage instance with the given connection string.
	// The format of the connection string is driver-specific.
	Open(connectionString string) (ReportStorage, error)
}

// Storage driver names
const (
	StorageDriverMemory     = "memory"
	StorageDriverFilesystem = "filesystem"
	StorageDriverPostgres   = "postgres"
)

// Storage driver registry
var (
	storageDriversMu sync.RWMutex
	storageDrivers   = make(map[string]StorageDriver)
)

// RegisterStorageDriver registers a storage driver by name.
// Panics if a driver with the same name is already registered.
func RegisterStorageDriver(name string, driver StorageDriver) {
	storageDriversMu.Lock()
	defer storageDriversMu.Unlock()

	if driver == nil {
		panic(ErrMsgNilStorageDriver)
	}
	if _, exists := storageDrivers[name]; exists {
		panic(ErrMsgDriverAlreadyRegistered + ": " + name)
	}
	storageDrivers[name] = driver
}

// OpenStorage opens a storage connection using the named driver.
//
// Example:
//
//	storage, err := wellformed.OpenStorage("memory", "")
//	storage, err := wellformed.OpenStorage("filesystem", "/var/lib/wellformed")
func OpenStorage(driverName, connectionString string) (ReportStorage, error) {
	storageDriversMu.RLock()
	driver, ok := storageDrivers[driverName]
	storageDriversMu.RUnlock()

	if !ok {
		return nil, NewStorageDriverNotFoundError(driverName)
	}

	return driver.Open(connectionString)
}

// ListStorageDrivers returns the names of all registered storage drivers, sorted.
func ListStorageDrivers() []string {
	storageDriversMu.RLock()
	defer storageDriversMu.RUnlock()

	names := make([]string, 0, len(storageDrivers))
	for name := range storageDrivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Storage error message constants
const (
	ErrMsgNilStorageDriver        = "storage driver is nil"
	ErrMsgDriverAlreadyRegistered = "storage driver already registered"
	ErrMsgStorageDriverNotFound   = "storage driver not found"
	ErrMsgStorageClosed           = "storage is closed"
	ErrMsgReportNotFound          = "report not found"
	ErrMsgNilReport               = "report is nil"
	ErrMsgStorageWrite            = "failed to write report"
	ErrMsgStorageRead             = "failed to read report"
	ErrMsgStorageDecode           = "failed to decode report"
	ErrMsgStorageDirectory        = "failed to prepare storage directory"
)

// NewStorageDriverNotFoundError creates an error for missing storage driver.
func NewStorageDriverNotFoundError(name string) error {
	return &StorageError{
		Message: ErrMsgStorageDriverNotFound,
		Name:    name,
	}
}

// NewReportNotFoundError creates an error for a report missing from storage.
func NewReportNotFoundError(id ReportID) error {
	return &StorageError{
		Message: ErrMsgReportNotFound,
		Name:    string(id),
	}
}

// NewStorageClosedError creates an error for operations on closed storage.
func NewStorageClosedError() error {
	return &StorageError{
		Message: ErrMsgStorageClosed,
	}
}

// StorageError represents a storage-related error.
type StorageError struct {
	Message string
	Name    string
	Cause   error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	msg := e.Message
	if e.Name != "" {
		msg += ": " + e.Name
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// IsReportNotFound reports whether err is a missing report error.
func IsReportNotFound(err error) bool {
	var storageErr *StorageError
	return errors.As(err, &storageErr) && storageErr.Message == ErrMsgReportNotFound
}

// generateReportID generates a unique report ID.
func generateReportID() ReportID {
	return ReportID(uuid.NewString())
}

// validReportID reports whether id has the shape of a generated ID.
func validReportID(id ReportID) bool {
	_, err := uuid.Parse(string(id))
	return err == nil
}

// matchesReportQuery checks if a report matches the query filters.
func matchesReportQuery(r *StoredReport, query *ReportQuery) bool {
	if query.NamePrefix != "" && !strings.HasPrefix(r.Name, query.NamePrefix) {
		return false
	}
	if query.Valid != nil && r.Valid != *query.Valid {
		return false
	}
	if query.Outcome != "" && r.Outcome != query.Outcome {
		return false
	}
	for _, tag := range query.Tags {
		if !containsString(r.Tags, tag) {
			return false
		}
	}
	return true
}

// sortReports orders reports newest first, breaking ties by ID.
func sortReports(reports []*StoredReport) {
	sort.Slice(reports, func(i, j int) bool {
		if !reports[i].CheckedAt.Equal(reports[j].CheckedAt) {
			return reports[i].CheckedAt.After(reports[j].CheckedAt)
		}
		return reports[i].ID < reports[j].ID
	})
}

// paginate applies query offset and limit to sorted results.
func paginate(reports []*StoredReport, query *ReportQuery) []*StoredReport {
	if query.Offset > 0 {
		if query.Offset >= len(reports) {
			return []*StoredReport{}
		}
		reports = reports[query.Offset:]
	}
	if query.Limit > 0 && len(reports) > query.Limit {
		reports = reports[:query.Limit]
	}
	return reports
}

// copyStoredReport creates a deep copy of a StoredReport.
func copyStoredReport(r *StoredReport) *StoredReport {
	if r == nil {
		return nil
	}
	clone := *r
	clone.Tags = copyStringSlice(r.Tags)
	return &clone
}

// containsString checks if a slice contains a string.
func containsString(slice []string, s string) bool {
	for _, item := range slice {
		if item == s {
			return true
		}
	}
	return false
}

// copyStringSlice creates a copy of a string slice.
func copyStringSlice(s []string) []string {
	if s == nil {
		return nil
	}
	result := make([]string, len(s))
	copy(result, s)
	return result
}
