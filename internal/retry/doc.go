// Package retry provides the fixed-backoff retry policy applied to every
// per-node crawl operation.
//
// The policy is deliberately simple: a fixed pause, a small attempt budget,
// and the final error returned unchanged. Exponential backoff buys nothing
// against this origin (failures are either momentary hiccups or permanent
// page problems), and wrapping the final error would break the errors.Is
// classification the walker relies on to decide how a failure degrades.
package retry
