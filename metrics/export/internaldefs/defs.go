package internaldefs

import (
	goSession "github.com/MrEthical07/goSession"
)

// CounterDef names one exported counter.
type CounterDef struct {
	ID   goSession.MetricID
	Name string
	Help string
}

// HistogramDef names one exported histogram.
type HistogramDef struct {
	ID   goSession.MetricID
	Name string
	Help string
}

// CounterDefs lists every engine counter in export order.
var CounterDefs = []CounterDef{
	{ID: goSession.MetricLoginSuccess, Name: "gosession_login_success_total", Help: "Successful logins."},
	{ID: goSession.MetricLoginFailure, Name: "gosession_login_failure_total", Help: "Rejected login attempts."},
	{ID: goSession.MetricSessionCreated, Name: "gosession_session_created_total", Help: "Created session rows."},
	{ID: goSession.MetricSessionRenewed, Name: "gosession_session_renewed_total", Help: "Sliding renewals on authenticated requests."},
	{ID: goSession.MetricSessionExpired, Name: "gosession_session_expired_total", Help: "Requests rejected for an expired credential or session."},
	{ID: goSession.MetricSessionInvalidated, Name: "gosession_session_invalidated_total", Help: "Requests rejected for a malformed credential, missing session or inactive user."},
	{ID: goSession.MetricLogout, Name: "gosession_logout_total", Help: "Completed logouts."},
	{ID: goSession.MetricRoleDenied, Name: "gosession_role_denied_total", Help: "Requests rejected by a role gate."},
	{ID: goSession.MetricSweepRemoved, Name: "gosession_sweep_removed_total", Help: "Expired session rows removed by the sweeper."},
	{ID: goSession.MetricStoreError, Name: "gosession_store_error_total", Help: "Session or user store failures."},
}

// HistogramDefs lists every engine histogram.
var HistogramDefs = []HistogramDef{
	{ID: goSession.MetricGuardLatency, Name: "gosession_guard_latency_seconds", Help: "Session guard latency."},
}

// AuditDroppedName is the counter for events lost to dispatcher backpressure.
const (
	AuditDroppedName = "gosession_audit_dropped_total"
	AuditDroppedHelp = "Dropped audit events due to dispatcher backpressure."
)

// HistogramUpperBounds are the finite bucket bounds in seconds; the eighth
// bucket is +Inf.
var HistogramUpperBounds = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5}

// HistogramBoundSuffix names each bucket, +Inf included, for exporters that
// flatten buckets into instrument names.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets copies raw into a fixed eight-bucket array, zero-filling
// missing buckets.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
