// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger records security-relevant scraper activity.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogBlockedRequest logs a network request aborted by the read-only guard.
func (al *AuditLogger) LogBlockedRequest(url, resourceType string) {
	al.WithFields(logrus.Fields{
		"event_type":    "request_blocked",
		"url":           url,
		"resource_type": resourceType,
	}).Warn("Blocked fund-affecting request")
}

// LogSecurityViolation logs a navigation onto a forbidden page.
func (al *AuditLogger) LogSecurityViolation(url, keyword string) {
	al.WithFields(logrus.Fields{
		"event_type": "security_violation",
		"url":        url,
		"keyword":    keyword,
	}).Error("Navigation to forbidden page detected")
}

// LogLoginAttempt logs a login attempt without the password.
func (al *AuditLogger) LogLoginAttempt(username string, success bool, landingURL string) {
	entry := al.WithFields(logrus.Fields{
		"event_type":  "login",
		"username":    MaskIdentifier(username),
		"success":     success,
		"landing_url": landingURL,
	})
	if success {
		entry.Info("Bookmaker login succeeded")
		return
	}
	entry.Warn("Bookmaker login failed")
}

// LogScrape logs a completed extraction pass.
func (al *AuditLogger) LogScrape(source string, records int, duration time.Duration) {
	al.WithFields(logrus.Fields{
		"event_type":  "scrape",
		"source":      source,
		"records":     records,
		"duration_ms": duration.Milliseconds(),
	}).Info("Bet records scraped")
}

// MaskIdentifier keeps the first two characters of an account identifier.
func MaskIdentifier(id string) string {
	if len(id) <= 2 {
		return "**"
	}
	masked := []byte(id)
	for i := 2; i < len(masked); i++ {
		masked[i] = '*'
	}
	return string(masked)
}
