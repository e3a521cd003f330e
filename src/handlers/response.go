package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rutdashboard/rut-dashboard-api/src/logging"
	"github.com/rutdashboard/rut-dashboard-api/src/middleware"
	"github.com/rutdashboard/rut-dashboard-api/src/models"
	"github.com/rutdashboard/rut-dashboard-api/src/services"
)

// PostgreSQL error codes mapped to client errors
const (
	pgUniqueViolation  = "23505"
	pgStringTruncation = "22001"
)

// MaxBodyBytes bounds accepted JSON request bodies
const MaxBodyBytes = 10 << 20

func respondSuccess(c *gin.Context, status int, data any, message string) {
	c.JSON(status, models.APIResponse{Success: true, Message: message, Data: data})
}

func respondFailure(c *gin.Context, status int, message string) {
	c.JSON(status, models.Failure(message))
}

// Responder writes error envelopes. Internal error details are exposed only
// when ExposeErrors is set (development).
type Responder struct {
	ExposeErrors bool
}

// Error classifies err and writes the matching error envelope
func (r Responder) Error(c *gin.Context, err error) {
	var ve *services.ValidationError
	var pgErr *pgconn.PgError

	switch {
	case errors.As(err, &ve):
		respondFailure(c, http.StatusBadRequest, ve.Message)
	case errors.Is(err, services.ErrInvalidCredentials):
		respondFailure(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, services.ErrAccountDeactivated):
		respondFailure(c, http.StatusUnauthorized, "Account is deactivated")
	case errors.Is(err, services.ErrAdminNotFound):
		respondFailure(c, http.StatusNotFound, "Admin not found")
	case errors.Is(err, services.ErrResultNotFound):
		respondFailure(c, http.StatusNotFound, "Result not found")
	case errors.Is(err, services.ErrEmailTaken):
		respondFailure(c, http.StatusBadRequest, "Admin with this email already exists")
	case errors.Is(err, services.ErrInvalidID):
		respondFailure(c, http.StatusBadRequest, "Invalid ID format")
	case errors.Is(err, services.ErrSelfModification):
		respondFailure(c, http.StatusBadRequest, "Cannot modify your own account")
	case errors.Is(err, services.ErrLastSuperAdmin):
		respondFailure(c, http.StatusBadRequest, "Cannot demote the last super admin")
	case errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation:
		respondFailure(c, http.StatusBadRequest, fmt.Sprintf("Duplicate value for %s", duplicateField(pgErr)))
	case errors.As(err, &pgErr) && pgErr.Code == pgStringTruncation:
		respondFailure(c, http.StatusBadRequest, "Value too long")
	default:
		r.internal(c, err)
	}
}

func (r Responder) internal(c *gin.Context, err error) {
	_ = c.Error(err)
	logger := logging.ComponentLogger("http", middleware.GetRequestID(c))
	logger.Error().
		Err(err).
		Str("path", c.Request.URL.Path).
		Msg("request failed")

	response := models.Failure("Internal Server Error")
	if r.ExposeErrors {
		response.Message = err.Error()
		response.Error = err.Error()
	}
	c.JSON(http.StatusInternalServerError, response)
}

// Recovery turns a panic into a 500 envelope
func (r Responder) Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		r.internal(c, fmt.Errorf("panic: %v", recovered))
		c.Abort()
	})
}

// NoRoute answers unknown routes with a 404 envelope
func NoRoute(c *gin.Context) {
	respondFailure(c, http.StatusNotFound, fmt.Sprintf("Route %s not found", c.Request.URL.Path))
}

// duplicateField names the field behind a unique violation
func duplicateField(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	name := strings.TrimSuffix(pgErr.ConstraintName, "_key")
	if i := strings.LastIndex(name, "_"); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return "field"
	}
	return name
}

// bindJSON decodes a bounded JSON body into dst
func bindJSON(c *gin.Context, dst any) error {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)
	return c.ShouldBindJSON(dst)
}

// parseID reads a UUID path parameter
func parseID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, services.ErrInvalidID
	}
	return id, nil
}

// currentAdminID returns the id of the authenticated administrator
func currentAdminID(c *gin.Context) (uuid.UUID, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(claims.ID)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// paginationFromQuery reads page, limit, sortBy and sortOrder
func paginationFromQuery(c *gin.Context) models.PaginationOptions {
	return models.PaginationOptions{
		Page:      queryInt(c, "page"),
		Limit:     queryInt(c, "limit"),
		SortBy:    c.Query("sortBy"),
		SortOrder: models.SortOrder(c.Query("sortOrder")),
	}.Normalize()
}

// queryInt returns 0 for a missing or non-integer parameter
func queryInt(c *gin.Context, name string) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return n
}
