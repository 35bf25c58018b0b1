// Package diagnostic provides the structured errors reported by the equal,
// deepcopy and track packages.
//
// Key capabilities:
//   - Kind taxonomy with sentinel errors usable with errors.Is
//   - TypeErrors: verification results accumulated per type
//   - Error: a single failure reached while walking a value
//   - Deterministic rendering with generated remediation lines
package diagnostic
