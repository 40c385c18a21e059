package security

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/c360studio/semgraph/errors"
	"github.com/c360studio/semgraph/metric"
)

// Query describes one request entering the guard. Text is the surface form
// used for validation and whitelisting; Patterns, Optionals and Filters are
// the structural counts of the parsed algebra, used for complexity scoring.
type Query struct {
	Text      string
	ClientID  string
	Admin     bool
	Patterns  int
	Optionals int
	Filters   int
}

// ExecFunc runs an admitted query. The context carries the guard's deadline;
// resources reported through the handle are released when execution finishes
// or times out.
type ExecFunc func(ctx context.Context, resources *QueryResources) error

// QueryResources lets an executor charge resource usage to its query. Once
// the guard releases the query, on completion or timeout, the handle is
// closed and further Track calls are no-ops: an abandoned executor cannot
// re-grow the counters after release.
type QueryResources struct {
	mu      sync.Mutex
	closed  bool
	tracker *ResourceTracker
	queryID string
}

// Track charges amount units of resource to the running query.
func (qr *QueryResources) Track(amount int64) {
	qr.mu.Lock()
	defer qr.mu.Unlock()
	if qr.closed {
		return
	}
	qr.tracker.Track(qr.queryID, amount)
}

// close releases the query's resources and seals the handle.
func (qr *QueryResources) close() {
	qr.mu.Lock()
	defer qr.mu.Unlock()
	qr.closed = true
	qr.tracker.Release(qr.queryID)
}

// Guard admits queries through validation, rate limiting and complexity
// scoring, then runs them under a deadline with resource tracking. Rejected
// and timed-out queries are recorded as incidents; enough incidents within
// the configured window switch the guard to emergency mode, in which only
// admin-flagged queries run.
type Guard struct {
	config    Config
	logger    *slog.Logger
	metrics   *metric.Metrics
	validator validator
	limiter   *rateLimiter
	monitor   *incidentMonitor
	tracker   *ResourceTracker
	whitelist map[string]struct{}

	now func() time.Time
}

// NewGuard creates a guard from config. logger may be nil (slog default);
// registry may be nil (metrics disabled).
func NewGuard(config Config, logger *slog.Logger, registry *metric.MetricsRegistry) (*Guard, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	whitelist := make(map[string]struct{}, len(config.Whitelist))
	for _, text := range config.Whitelist {
		whitelist[text] = struct{}{}
	}

	g := &Guard{
		config:    config,
		logger:    logger,
		limiter:   newRateLimiter(config.RateLimitWindow, config.RateLimitMaxRequests),
		monitor:   newIncidentMonitor(config.IncidentWindow, config.IncidentThreshold, config.MaxIncidents),
		tracker:   NewResourceTracker(),
		whitelist: whitelist,
		now:       time.Now,
	}
	if registry != nil {
		g.metrics = registry.CoreMetrics()
	}
	return g, nil
}

// Execute runs query through the admission pipeline and, if admitted,
// invokes run under the configured timeout. A refused or abandoned query
// returns a *Rejection wrapping the matching sentinel error.
func (g *Guard) Execute(ctx context.Context, query Query, run ExecFunc) error {
	queryID := uuid.NewString()
	clientID := query.ClientID
	if clientID == "" {
		clientID = "anonymous"
	}

	if g.monitor.emergencyActive() && !query.Admin {
		return g.reject(query, clientID, &Rejection{
			Reason:  ReasonEmergencyMode,
			Message: "emergency mode active, only admin queries accepted",
			Err:     errors.ErrEmergencyMode,
		}, SeverityMedium)
	}

	_, whitelisted := g.whitelist[query.Text]
	if !whitelisted {
		if reason, err := g.validator.validate(query.Text); err != nil {
			return g.reject(query, clientID, &Rejection{
				Reason:  reason,
				Message: err.Error(),
				Err:     err,
			}, SeverityHigh)
		}
		if !g.limiter.allow(clientID, g.now()) {
			return g.reject(query, clientID, &Rejection{
				Reason:  ReasonRateLimited,
				Message: "rate limit exceeded for client " + clientID,
				Err:     errors.ErrRateLimited,
			}, SeverityLow)
		}
	}

	score := scoreComplexity(query)
	if score.Score > g.config.MaxComplexity {
		return g.reject(query, clientID, &Rejection{
			Reason:    ReasonTooComplex,
			Message:   "complexity above threshold",
			Score:     score.Score,
			Threshold: g.config.MaxComplexity,
			Err:       errors.ErrQueryTooComplex,
		}, SeverityMedium)
	}

	execCtx, cancel := context.WithTimeout(ctx, g.config.QueryTimeout)
	defer cancel()

	resources := &QueryResources{tracker: g.tracker, queryID: queryID}
	done := make(chan error, 1)
	go func() {
		done <- run(execCtx, resources)
	}()

	select {
	case err := <-done:
		resources.close()
		return err
	case <-execCtx.Done():
		resources.close()
		return g.reject(query, clientID, &Rejection{
			Reason:  ReasonTimeout,
			Message: "execution exceeded deadline " + g.config.QueryTimeout.String(),
			Err:     errors.WrapTransient(errors.ErrQueryTimeout, "security", "Execute", "query abandoned"),
		}, SeverityMedium)
	}
}

// EmergencyActive reports whether the guard is in emergency mode.
func (g *Guard) EmergencyActive() bool {
	return g.monitor.emergencyActive()
}

// ExitEmergencyMode clears emergency mode. This is an administrative action;
// the guard never leaves emergency mode on its own.
func (g *Guard) ExitEmergencyMode() {
	if g.monitor.exitEmergency() {
		g.logger.Info("emergency mode cleared by administrator")
		if g.metrics != nil {
			g.metrics.SetEmergencyMode(false)
		}
	}
}

// Incidents returns a defensive copy of the retained incident records.
func (g *Guard) Incidents() []Incident {
	return g.monitor.snapshot()
}

// Tracker exposes the guard's resource tracker, chiefly for baseline checks.
func (g *Guard) Tracker() *ResourceTracker {
	return g.tracker
}

func (g *Guard) reject(query Query, clientID string, rejection *Rejection, severity string) error {
	incident, entered := g.monitor.record(Incident{
		Kind:      rejection.Reason,
		Severity:  severity,
		Timestamp: g.now().UTC(),
		Source:    clientID,
		Query:     query.Text,
		Action:    "rejected",
	})

	g.logger.Warn("query rejected",
		"reason", rejection.Reason,
		"client", clientID,
		"incident_id", incident.ID)
	if g.metrics != nil {
		g.metrics.RecordRejection(rejection.Reason)
	}

	if entered {
		g.logger.Error("emergency mode activated",
			"incident_threshold", g.config.IncidentThreshold,
			"window", g.config.IncidentWindow)
		if g.metrics != nil {
			g.metrics.SetEmergencyMode(true)
		}
	}
	return rejection
}
