package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"medadmit/internal/database"
	"medadmit/internal/domain"
	"medadmit/internal/logging"
	"medadmit/internal/metrics"
	"medadmit/internal/store"
)

const (
	HealthOK       = "ok"
	HealthDegraded = "degraded"
)

// DatabaseHealth reports the result of the database round-trip
type DatabaseHealth struct {
	Connected bool   `json:"connected"`
	Leads     int64  `json:"leads"`
	Error     string `json:"error,omitempty"`
}

// HealthResult is the health endpoint payload
type HealthResult struct {
	Status    string         `json:"status"`
	Service   string         `json:"service"`
	Version   string         `json:"version"`
	Timestamp string         `json:"timestamp"`
	Database  DatabaseHealth `json:"database"`
}

// Healthy reports whether every dependency answered
func (h HealthResult) Healthy() bool {
	return h.Status == HealthOK
}

// HealthService implements the health service
type HealthService struct {
	db      *gorm.DB
	leads   *store.Repository[domain.Lead]
	service string
	version string
	verbose bool
	log     *logrus.Entry
}

// NewHealthService creates a new health service. With verbose, database
// errors are included in the result.
func NewHealthService(db *gorm.DB, stores *store.Stores, service, version string, verbose bool) *HealthService {
	return &HealthService{
		db:      db,
		leads:   stores.Leads,
		service: service,
		version: version,
		verbose: verbose,
		log:     logging.For("health"),
	}
}

// Check pings the database and counts leads
func (s *HealthService) Check(ctx context.Context) HealthResult {
	result := HealthResult{
		Status:    HealthOK,
		Service:   s.service,
		Version:   s.version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if stats, err := database.Stats(s.db); err == nil {
		metrics.UpdateDBConnections(stats.InUse, stats.Idle)
	}

	fail := func(err error) HealthResult {
		s.log.WithError(err).Warn("Health check failed")
		result.Status = HealthDegraded
		if s.verbose {
			result.Database.Error = err.Error()
		}
		return result
	}

	if err := database.Ping(ctx, s.db); err != nil {
		return fail(err)
	}
	leads, err := s.leads.Count(ctx)
	if err != nil {
		return fail(err)
	}

	result.Database = DatabaseHealth{Connected: true, Leads: leads}
	return result
}
