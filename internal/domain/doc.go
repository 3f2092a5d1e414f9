// Package domain models the asset risk monitor's core data and math.
//
// # Assets and proximity
//
// An Asset is a geographically-fixed entity (warehouse, port, HQ) with an
// importance rating 1–10 and a concern radius in kilometres. An event at
// some coordinate is relevant to an asset when the great-circle distance
// between them is within the asset's radius (boundary inclusive). Distances
// use the haversine formula with an Earth radius of 6371 km; see [Distance].
//
// Assets without coordinates exist (operators add them before pinning a
// location) and are excluded from proximity and scan logic.
//
// The Registry is an immutable snapshot of the asset set. A fresh snapshot
// is built at the start of every scan cycle from the store, so proximity
// lookups within one cycle always observe a single consistent asset set —
// there is no replace-while-scanning hazard to lock around.
//
// # Risk scoring conventions
//
// Risk scores are integers 0–100. 0 means no detected risk, 100 critical.
// Severity labels come from the classification provider:
//
//	LOW | MEDIUM | HIGH | CRITICAL | ERROR
//
// ERROR is reserved for pipeline failure and always pairs with score 0.
// Because that conflates "assessment failed" with "confirmed safe",
// RiskAssessment carries a separate Failed flag; aggregations that care
// about the difference must check it rather than the score.
//
// The importance multiplier escalates already-meaningful threats for
// critical assets:
//
//	multiplier = 1.0 + (importance − 5) × 0.1
//
// so importance 10 → ×1.5, importance 5 → ×1.0, importance 1 → ×0.6.
// Raw scores ≤ 20 are never amplified — the multiplier exists to escalate
// real threats, not to manufacture risk from noise. Multiplied scores are
// clamped to 100.
//
// # Analysis runs
//
// One AnalysisRun is produced per located asset per scan cycle: the weather
// snapshot used as the event centre, the scored threat items (at most ten),
// and the maximum risk score across them (0 when no items were scored).
// Runs are persisted as a run row followed by item rows; the two writes are
// not transactional, so readers treat a run with no items as zero threats,
// not corruption.
package domain
