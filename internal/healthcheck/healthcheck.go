// Package healthcheck implements the draft RFC health+json response,
// see https://inadarei.github.io/rfc-healthcheck/
package healthcheck

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Status is a health check outcome
type Status string

const (
	StatusPass Status = "pass"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// Component is one observed measurement in a health response
type Component struct {
	ComponentType string      `json:"componentType,omitempty"`
	ObservedValue interface{} `json:"observedValue,omitempty"`
	ObservedUnit  string      `json:"observedUnit,omitempty"`
	Status        Status      `json:"status,omitempty"`
	Time          time.Time   `json:"time,omitempty"`
	Output        string      `json:"output,omitempty"`
}

// Response is the health+json document
type Response struct {
	Status    Status                 `json:"status"`
	Version   string                 `json:"version,omitempty"`
	ReleaseID string                 `json:"releaseID,omitempty"`
	Output    string                 `json:"output,omitempty"`
	Checks    map[string][]Component `json:"checks,omitempty"`
}

// Provider produces one named health measurement
type Provider interface {
	Name() string
	Check(ctx context.Context) (Component, error)
}

// HealthCheck aggregates providers into a single health response
type HealthCheck struct {
	logger    *logrus.Logger
	providers []Provider
	releaseID string
}

// New creates a health check over the given providers
func New(logger *logrus.Logger, releaseID string, providers ...Provider) *HealthCheck {
	return &HealthCheck{
		logger:    logger,
		providers: providers,
		releaseID: releaseID,
	}
}

// Get runs every provider and aggregates the worst status: any fail makes
// the whole response fail, else any warn makes it warn
func (h *HealthCheck) Get(ctx context.Context) Response {
	checks := make(map[string][]Component, len(h.providers))
	status := StatusPass

	for _, provider := range h.providers {
		component, err := provider.Check(ctx)
		if err != nil {
			h.logger.WithError(err).Errorf("Unable to check %q", provider.Name())
			component = Component{
				ComponentType: "system",
				Status:        StatusFail,
				Time:          time.Now().UTC(),
				Output:        fmt.Sprintf("%v", err),
			}
		}
		checks[provider.Name()] = []Component{component}
		status = worstStatus(status, component.Status)
	}

	return Response{
		Status:    status,
		Version:   "1",
		ReleaseID: h.releaseID,
		Checks:    checks,
	}
}

func worstStatus(a, b Status) Status {
	if a == StatusFail || b == StatusFail {
		return StatusFail
	}
	if a == StatusWarn || b == StatusWarn {
		return StatusWarn
	}
	return StatusPass
}
