package wellformed

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HTTP routes
const (
	RouteValidate = "/v1/validate"
	RouteReports  = "/v1/reports"
	RouteReport   = "/v1/reports/:id"
	RouteHealth   = "/healthz"
	RouteMetrics  = "/metrics"
)

// HTTP query parameters
const (
	QueryDetail     = "detail"
	QueryStore      = "store"
	QueryName       = "name"
	QueryTag        = "tag"
	QueryNamePrefix = "name_prefix"
	QueryValid      = "valid"
	QueryOutcome    = "outcome"
	QueryLimit      = "limit"
	QueryOffset     = "offset"
	ParamID         = "id"
)

// HTTP error messages
const (
	ErrMsgRequestBody       = "request body must be a JSON object"
	ErrMsgRequestTooLarge   = "request body too large"
	ErrMsgStorageDisabled   = "report storage is not configured"
	ErrMsgInvalidQueryParam = "invalid query parameter"
	ErrMsgInternal          = "internal error"
)

// Server defaults not exposed through ServerConfig
const (
	HealthStatusOK          = "ok"
	DefaultStoredReportName = "request"
	ServerReadHeaderTimeout = 5 * time.Second
	ServerIdleTimeout       = 60 * time.Second
)

// ReportChecker is satisfied by Checker and CachedChecker.
type ReportChecker interface {
	Check(input string) *Report
	CheckValue(v any) *Report
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// validateRequest accepts any JSON value as input; non-strings fail the
// input guard rather than the request.
type validateRequest struct {
	Input any `json:"input"`
}

type validateResponse struct {
	Result
	ID     ReportID `json:"id,omitempty"`
	Report *Report  `json:"report,omitempty"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// Server exposes a ReportChecker over HTTP.
type Server struct {
	checker ReportChecker
	storage ReportStorage
	metrics *Metrics
	config  ServerConfig
	logger  *zap.Logger
	router  *gin.Engine
}

// NewServer creates the HTTP API. storage may be nil, in which case
// store requests fail and report routes answer 501.
func NewServer(checker ReportChecker, storage ReportStorage, config ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = DefaultServerMaxBodyBytes
	}

	s := &Server{
		checker: checker,
		storage: storage,
		metrics: NewMetrics(),
		config:  config,
		logger:  logger,
	}
	s.setupRouter()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Metrics returns the server's metrics.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Run serves on the configured address until ctx is canceled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.config.Address,
		Handler:           s.router,
		ReadHeaderTimeout: ServerReadHeaderTimeout,
		ReadTimeout:       s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       ServerIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(LogMsgServerStarting, zap.String(LogFieldAddress, s.config.Address))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultServerShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := server.Shutdown(shutdownCtx)
	s.logger.Info(LogMsgServerStopped, zap.String(LogFieldAddress, s.config.Address))
	return err
}

func (s *Server) setupRouter() {
	router := gin.New()
	router.Use(gin.Recovery(), s.loggingMiddleware())

	router.GET(RouteHealth, func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, healthResponse{Status: HealthStatusOK})
	})
	router.GET(RouteMetrics, gin.WrapH(s.metrics.Handler()))

	router.POST(RouteValidate, s.validate)
	router.GET(RouteReports, s.listReports)
	router.GET(RouteReport, s.getReport)

	s.router = router
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		s.logger.Debug(ctx.Request.Method,
			zap.String(LogFieldPath, ctx.FullPath()),
			zap.Int(LogFieldStatus, ctx.Writer.Status()),
			zap.Duration(LogFieldDuration, time.Since(start)))
	}
}

func (s *Server) validate(ctx *gin.Context) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, s.config.MaxBodyBytes)

	var req validateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			ctx.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: ErrMsgRequestTooLarge})
			return
		}
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: ErrMsgRequestBody})
		return
	}

	store, err := boolQuery(ctx, QueryStore)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: ErrMsgInvalidQueryParam, Field: QueryStore})
		return
	}
	detail, err := boolQuery(ctx, QueryDetail)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: ErrMsgInvalidQueryParam, Field: QueryDetail})
		return
	}
	if store && s.storage == nil {
		ctx.JSON(http.StatusNotImplemented, ErrorResponse{Error: ErrMsgStorageDisabled})
		return
	}

	report := s.checker.CheckValue(req.Input)
	s.metrics.ObserveReport(report)

	resp := validateResponse{Result: report.Result()}
	if detail {
		resp.Report = report
	}

	if store {
		input, _ := asText(req.Input)
		name := ctx.DefaultQuery(QueryName, DefaultStoredReportName)
		stored := NewStoredReport(name, input, report, ctx.QueryArray(QueryTag)...)
		if err := s.storage.Save(ctx.Request.Context(), stored); err != nil {
			s.logger.Error(LogMsgRequestFailed, zap.String(LogFieldPath, RouteValidate), zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: ErrMsgInternal})
			return
		}
		s.metrics.ObserveStored()
		s.logger.Debug(LogMsgReportSaved, zap.String(LogFieldReportID, string(stored.ID)))
		resp.ID = stored.ID
	}

	ctx.JSON(http.StatusOK, resp)
}

func (s *Server) getReport(ctx *gin.Context) {
	if s.storage == nil {
		ctx.JSON(http.StatusNotImplemented, ErrorResponse{Error: ErrMsgStorageDisabled})
		return
	}

	id := ReportID(ctx.Param(ParamID))
	report, err := s.storage.Get(ctx.Request.Context(), id)
	if err != nil {
		if IsReportNotFound(err) {
			ctx.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
			return
		}
		s.logger.Error(LogMsgRequestFailed, zap.String(LogFieldPath, RouteReport), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: ErrMsgInternal})
		return
	}

	ctx.JSON(http.StatusOK, report)
}

func (s *Server) listReports(ctx *gin.Context) {
	if s.storage == nil {
		ctx.JSON(http.StatusNotImplemented, ErrorResponse{Error: ErrMsgStorageDisabled})
		return
	}

	query, field, err := parseReportQuery(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: ErrMsgInvalidQueryParam, Field: field})
		return
	}

	reports, err := s.storage.List(ctx.Request.Context(), query)
	if err != nil {
		s.logger.Error(LogMsgRequestFailed, zap.String(LogFieldPath, RouteReports), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: ErrMsgInternal})
		return
	}

	ctx.JSON(http.StatusOK, reports)
}

// parseReportQuery reads list filters from the URL. On error it returns the
// offending parameter name.
func parseReportQuery(ctx *gin.Context) (*ReportQuery, string, error) {
	query := &ReportQuery{
		NamePrefix: ctx.Query(QueryNamePrefix),
		Outcome:    Outcome(ctx.Query(QueryOutcome)),
		Tags:       ctx.QueryArray(QueryTag),
	}

	if raw, ok := ctx.GetQuery(QueryValid); ok {
		valid, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, QueryValid, err
		}
		query.Valid = &valid
	}

	var err error
	if query.Limit, err = intQuery(ctx, QueryLimit); err != nil {
		return nil, QueryLimit, err
	}
	if query.Offset, err = intQuery(ctx, QueryOffset); err != nil {
		return nil, QueryOffset, err
	}
	return query, "", nil
}

func boolQuery(ctx *gin.Context, key string) (bool, error) {
	raw, ok := ctx.GetQuery(key)
	if !ok || raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}

func intQuery(ctx *gin.Context, key string) (int, error) {
	raw, ok := ctx.GetQuery(key)
	if !ok || raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, strconv.ErrRange
	}
	return n, nil
}
