// Package datasource provides fixture sources and the shared rate-limited
// HTTP client used for outbound API calls.
package datasource

import (
	"context"
	"errors"

	"github.com/yourusername/safebet-analyst/internal/models"
)

// FixtureSource defines the interface for loading match fixtures
type FixtureSource interface {
	// FetchFixtures retrieves the full fixture list
	FetchFixtures(ctx context.Context) ([]models.Fixture, error)

	// Name returns the name of the data source
	Name() string

	// IsEnabled returns whether this data source is currently enabled
	IsEnabled() bool
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeDisabled             = "disabled"
)

// Sentinel errors
var (
	ErrSourceDisabled = errors.New("data source disabled")
	ErrUnknownSource  = errors.New("unknown data source")
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
