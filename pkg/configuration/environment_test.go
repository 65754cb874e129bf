package configuration

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRateLimitValidate(t *testing.T) {
	opts := &RateLimitOptions{GlobalRPS: -1}
	require.Error(t, opts.Validate())

	opts = &RateLimitOptions{GlobalRPS: 2000000}
	require.Error(t, opts.Validate())

	opts = &RateLimitOptions{GlobalRPS: 1000}
	require.NoError(t, opts.Validate())
}

func TestWorkflowValidate(t *testing.T) {
	opts := &WorkflowOptions{LeadConvertProbability: 101, RequestConvertProbability: 50}
	require.Error(t, opts.Validate())

	opts = &WorkflowOptions{LeadConvertProbability: 75, RequestConvertProbability: -1}
	require.Error(t, opts.Validate())

	opts = &WorkflowOptions{LeadConvertProbability: 75, RequestConvertProbability: 50}
	require.NoError(t, opts.Validate())
}

func TestConnectionString(t *testing.T) {
	d := &DatabaseOptions{
		Name: "brokerage", Host: "db", Port: "5433", User: "app", Password: "secret",
	}
	require.Equal(
		t,
		"host=db port=5433 user=app dbname=brokerage password=secret sslmode=disable",
		d.ConnectionString(),
	)
}
