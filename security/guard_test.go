package security

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semgraph/errors"
)

func newTestGuard(t *testing.T, mutate func(*Config)) *Guard {
	t.Helper()
	config := DefaultConfig()
	if mutate != nil {
		mutate(&config)
	}
	g, err := NewGuard(config, nil, nil)
	require.NoError(t, err)
	return g
}

func runNoop(context.Context, *QueryResources) error { return nil }

func TestExecuteAdmitsSimpleQuery(t *testing.T) {
	g := newTestGuard(t, nil)

	ran := false
	err := g.Execute(context.Background(), Query{Text: "SELECT ?s WHERE { ?s ?p ?o }", Patterns: 1},
		func(context.Context, *QueryResources) error {
			ran = true
			return nil
		})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Empty(t, g.Incidents())
}

func TestValidationRejectsUnauthorizedOperation(t *testing.T) {
	g := newTestGuard(t, nil)

	err := g.Execute(context.Background(), Query{Text: "CLEAR GRAPH <http://example.org/g>"}, runNoop)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrUnauthorizedOperation))

	var rejection *Rejection
	require.True(t, stderrors.As(err, &rejection))
	assert.Equal(t, ReasonUnauthorized, rejection.Reason)

	incidents := g.Incidents()
	require.Len(t, incidents, 1)
	assert.Equal(t, ReasonUnauthorized, incidents[0].Kind)
	assert.Equal(t, SeverityHigh, incidents[0].Severity)
	assert.NotEmpty(t, incidents[0].ID)
}

func TestValidationRejectsStatementChaining(t *testing.T) {
	g := newTestGuard(t, nil)

	err := g.Execute(context.Background(),
		Query{Text: "SELECT ?s WHERE { ?s ?p ?o } ; DROP GRAPH <http://example.org/g>"}, runNoop)
	require.Error(t, err)
	assert.True(t, errors.IsSecurity(err))
}

func TestComplexityRejectionCarriesScoreAndThreshold(t *testing.T) {
	g := newTestGuard(t, func(c *Config) { c.MaxComplexity = 20 })

	err := g.Execute(context.Background(),
		Query{Text: "SELECT * WHERE { ... }", Patterns: 5, Optionals: 2, Filters: 3}, runNoop)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrQueryTooComplex))

	var rejection *Rejection
	require.True(t, stderrors.As(err, &rejection))
	assert.Equal(t, 5*weightPattern+2*weightOptional+3*weightFilter, rejection.Score)
	assert.Equal(t, 20, rejection.Threshold)
	assert.Contains(t, rejection.Error(), "score")
	assert.Contains(t, rejection.Error(), "threshold")
}

func TestRateLimitRejectsEleventhRequest(t *testing.T) {
	g := newTestGuard(t, nil)

	query := Query{Text: "SELECT ?s WHERE { ?s ?p ?o }", ClientID: "client-1", Patterns: 1}
	for i := 0; i < 10; i++ {
		require.NoError(t, g.Execute(context.Background(), query, runNoop), "request %d", i+1)
	}

	err := g.Execute(context.Background(), query, runNoop)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrRateLimited))

	var rejection *Rejection
	require.True(t, stderrors.As(err, &rejection))
	assert.Equal(t, ReasonRateLimited, rejection.Reason)

	// A different client is unaffected.
	other := query
	other.ClientID = "client-2"
	assert.NoError(t, g.Execute(context.Background(), other, runNoop))
}

func TestRateLimitWindowResets(t *testing.T) {
	g := newTestGuard(t, func(c *Config) { c.RateLimitMaxRequests = 2 })

	clock := time.Now()
	g.now = func() time.Time { return clock }

	query := Query{Text: "SELECT ?s WHERE { ?s ?p ?o }", ClientID: "client-1", Patterns: 1}
	require.NoError(t, g.Execute(context.Background(), query, runNoop))
	require.NoError(t, g.Execute(context.Background(), query, runNoop))
	require.Error(t, g.Execute(context.Background(), query, runNoop))

	clock = clock.Add(g.config.RateLimitWindow)
	assert.NoError(t, g.Execute(context.Background(), query, runNoop))
}

func TestTimeoutReleasesTrackedResources(t *testing.T) {
	g := newTestGuard(t, func(c *Config) { c.QueryTimeout = 20 * time.Millisecond })

	err := g.Execute(context.Background(), Query{Text: "SELECT ?s WHERE { ?s ?p ?o }", Patterns: 1},
		func(ctx context.Context, resources *QueryResources) error {
			resources.Track(512)
			<-ctx.Done()
			return ctx.Err()
		})
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrQueryTimeout))
	assert.False(t, stderrors.Is(err, errors.ErrUnauthorizedOperation))

	// Tracked resources return to the pre-query baseline even on timeout.
	assert.Equal(t, int64(0), g.Tracker().InUse())

	var rejection *Rejection
	require.True(t, stderrors.As(err, &rejection))
	assert.Equal(t, ReasonTimeout, rejection.Reason)
}

func TestAbandonedExecutorCannotRegrowResources(t *testing.T) {
	g := newTestGuard(t, func(c *Config) { c.QueryTimeout = 20 * time.Millisecond })

	proceed := make(chan struct{})
	finished := make(chan struct{})
	err := g.Execute(context.Background(), Query{Text: "SELECT ?s WHERE { ?s ?p ?o }", Patterns: 1},
		func(_ context.Context, resources *QueryResources) error {
			resources.Track(512)
			// Outlive the deadline, then keep charging resources the way
			// an abandoned executor would.
			<-proceed
			resources.Track(5)
			close(finished)
			return nil
		})
	require.Error(t, err)
	require.True(t, stderrors.Is(err, errors.ErrQueryTimeout))

	close(proceed)
	<-finished

	// The late Track lands on a closed handle; counters stay at baseline.
	assert.Equal(t, int64(0), g.Tracker().InUse())
}

func TestCompletionReleasesTrackedResources(t *testing.T) {
	g := newTestGuard(t, nil)

	err := g.Execute(context.Background(), Query{Text: "SELECT ?s WHERE { ?s ?p ?o }", Patterns: 1},
		func(_ context.Context, resources *QueryResources) error {
			resources.Track(256)
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, int64(0), g.Tracker().InUse())
}

func TestWhitelistBypassesValidationAndRateLimit(t *testing.T) {
	trusted := "CLEAR GRAPH <http://example.org/rebuild>"
	g := newTestGuard(t, func(c *Config) {
		c.Whitelist = []string{trusted}
		c.RateLimitMaxRequests = 2
	})

	// Forbidden text and well past the rate limit, yet every run succeeds.
	for i := 0; i < 10; i++ {
		require.NoError(t, g.Execute(context.Background(),
			Query{Text: trusted, ClientID: "client-1"}, runNoop))
	}
}

func TestWhitelistNeverBypassesTimeout(t *testing.T) {
	trusted := "SELECT ?s WHERE { ?s ?p ?o }"
	g := newTestGuard(t, func(c *Config) {
		c.Whitelist = []string{trusted}
		c.QueryTimeout = 20 * time.Millisecond
	})

	err := g.Execute(context.Background(), Query{Text: trusted},
		func(ctx context.Context, _ *QueryResources) error {
			<-ctx.Done()
			return ctx.Err()
		})
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrQueryTimeout))
}

func TestEmergencyModeAfterRepeatedIncidents(t *testing.T) {
	g := newTestGuard(t, nil)

	// Ten rejections inside the incident window trip emergency mode.
	for i := 0; i < 10; i++ {
		err := g.Execute(context.Background(),
			Query{Text: "DROP GRAPH <http://example.org/g>", ClientID: "attacker"}, runNoop)
		require.Error(t, err)
	}
	require.True(t, g.EmergencyActive())

	// Non-admin queries are blocked, admin queries still run.
	err := g.Execute(context.Background(),
		Query{Text: "SELECT ?s WHERE { ?s ?p ?o }", Patterns: 1}, runNoop)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrEmergencyMode))

	assert.NoError(t, g.Execute(context.Background(),
		Query{Text: "SELECT ?s WHERE { ?s ?p ?o }", Patterns: 1, Admin: true}, runNoop))

	// Exit is an explicit administrative action.
	g.ExitEmergencyMode()
	assert.False(t, g.EmergencyActive())
	assert.NoError(t, g.Execute(context.Background(),
		Query{Text: "SELECT ?s WHERE { ?s ?p ?o }", Patterns: 1}, runNoop))
}

func TestIncidentFeedIsDefensiveCopy(t *testing.T) {
	g := newTestGuard(t, nil)

	err := g.Execute(context.Background(), Query{Text: "CLEAR ALL"}, runNoop)
	require.Error(t, err)

	first := g.Incidents()
	require.Len(t, first, 1)
	first[0].Query = "tampered"

	second := g.Incidents()
	require.Len(t, second, 1)
	assert.Equal(t, "CLEAR ALL", second[0].Query)
}

func TestResourceTrackerAccounting(t *testing.T) {
	rt := NewResourceTracker()
	rt.Track("q1", 100)
	rt.Track("q1", 50)
	rt.Track("q2", 25)

	assert.Equal(t, int64(150), rt.Held("q1"))
	assert.Equal(t, int64(175), rt.InUse())

	rt.Release("q1")
	assert.Equal(t, int64(0), rt.Held("q1"))
	assert.Equal(t, int64(25), rt.InUse())
}
