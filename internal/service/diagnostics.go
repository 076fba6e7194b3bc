package service

import (
	"context"
	"errors"

	"github.com/utafrali/EcoTrail/internal/store"
)

// Diagnostic status strings.
const (
	statusRunning       = "✅ Running"
	statusNotAvailable  = "❌ Not Available"
	statusUninitialized = "⚠️  Available but not initialized"
	statusAvailable     = "✅ Available"
	statusWorking       = "✅ Connected & Working"
	statusBroken        = "⚠️  Connected but Error: "
	statusSet           = "✅ Set"
	statusNotSet        = "❌ Not Set"
	statusConnected     = "Connected"
	statusDisconnected  = "Not Connected"
)

const (
	maxListedCollections = 10
	maxErrorRunes        = 50
)

// Diagnostics is the informational report served by the diagnostics
// endpoint.
type Diagnostics struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      string   `json:"database_url"`
	DatabaseName     string   `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}

// DiagnosticsService reports store reachability and configuration presence.
type DiagnosticsService struct {
	store   store.Store
	urlSet  bool
	nameSet bool
}

// NewDiagnosticsService creates a diagnostics service. urlSet and nameSet
// report whether the database URL and name were configured.
func NewDiagnosticsService(st store.Store, urlSet, nameSet bool) *DiagnosticsService {
	return &DiagnosticsService{store: st, urlSet: urlSet, nameSet: nameSet}
}

// Report builds the diagnostics report. It has no side effects.
func (s *DiagnosticsService) Report(ctx context.Context) Diagnostics {
	d := Diagnostics{
		Backend:          statusRunning,
		Database:         statusNotAvailable,
		ConnectionStatus: statusDisconnected,
		Collections:      []string{},
		DatabaseURL:      presence(s.urlSet),
		DatabaseName:     presence(s.nameSet),
	}

	if s.store == nil {
		d.Database = statusUninitialized
		return d
	}

	d.Database = statusAvailable
	d.ConnectionStatus = statusConnected

	names, err := s.store.Collections(ctx)
	if err != nil {
		d.Database = statusBroken + truncate(rootMessage(err), maxErrorRunes)
		return d
	}
	if len(names) > maxListedCollections {
		names = names[:maxListedCollections]
	}
	d.Collections = append(d.Collections, names...)
	d.Database = statusWorking
	return d
}

func presence(set bool) string {
	if set {
		return statusSet
	}
	return statusNotSet
}

func rootMessage(err error) string {
	var opErr *store.OpError
	if errors.As(err, &opErr) {
		return opErr.Err.Error()
	}
	return err.Error()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
