package healthcheck

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name      string
	component Component
	err       error
}

func (f fakeProvider) Name() string { return f.name }

func (f fakeProvider) Check(context.Context) (Component, error) {
	return f.component, f.err
}

func passing(name string) fakeProvider {
	return fakeProvider{name: name, component: Component{Status: StatusPass, Time: time.Now().UTC()}}
}

func TestGetAggregatesAllProviders(t *testing.T) {
	logger, _ := test.NewNullLogger()
	health := New(logger, "1.2.3", passing("uptime"), passing("memory:utilization"))

	response := health.Get(context.Background())

	assert.Equal(t, StatusPass, response.Status)
	assert.Equal(t, "1", response.Version)
	assert.Equal(t, "1.2.3", response.ReleaseID)
	assert.Len(t, response.Checks, 2)
	assert.Contains(t, response.Checks, "uptime")
	assert.Contains(t, response.Checks, "memory:utilization")
}

func TestGetWarnDominatesPass(t *testing.T) {
	logger, _ := test.NewNullLogger()
	warning := fakeProvider{name: "cpu:utilization", component: Component{Status: StatusWarn}}
	health := New(logger, "", passing("uptime"), warning)

	response := health.Get(context.Background())

	assert.Equal(t, StatusWarn, response.Status)
}

func TestGetFailDominatesWarn(t *testing.T) {
	logger, _ := test.NewNullLogger()
	warning := fakeProvider{name: "cpu:utilization", component: Component{Status: StatusWarn}}
	failing := fakeProvider{name: "uptime", component: Component{Status: StatusFail}}
	health := New(logger, "", warning, failing, passing("memory:utilization"))

	response := health.Get(context.Background())

	assert.Equal(t, StatusFail, response.Status)
}

func TestGetTurnsProviderErrorIntoFailure(t *testing.T) {
	logger, hook := test.NewNullLogger()
	broken := fakeProvider{name: "cpu:utilization", err: errors.New("getrusage failed")}
	health := New(logger, "", passing("uptime"), broken)

	response := health.Get(context.Background())

	assert.Equal(t, StatusFail, response.Status)
	require.Len(t, response.Checks["cpu:utilization"], 1)
	component := response.Checks["cpu:utilization"][0]
	assert.Equal(t, StatusFail, component.Status)
	assert.Equal(t, "getrusage failed", component.Output)
	require.NotEmpty(t, hook.Entries)
	assert.Contains(t, hook.LastEntry().Message, `Unable to check "cpu:utilization"`)
}

func TestProvidersReportSaneValues(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		component, err := (&MemoryUsageProvider{}).Check(ctx)
		require.NoError(t, err)
		assert.Equal(t, StatusPass, component.Status)
		assert.Equal(t, "B", component.ObservedUnit)
		assert.Greater(t, component.ObservedValue.(uint64), uint64(0))
	})

	t.Run("uptime", func(t *testing.T) {
		provider := NewUptimeProvider()
		component, err := provider.Check(ctx)
		require.NoError(t, err)
		assert.Equal(t, StatusPass, component.Status)
		assert.Equal(t, "s", component.ObservedUnit)
		assert.GreaterOrEqual(t, component.ObservedValue.(float64), float64(0))
	})
}
