// Package cache provides a redis-backed cache of aggregated board snapshots
// for server-side deployments (see cmd/board-proxy). The widget core itself
// keeps its detail cache in memory; this package exists so a proxy serving
// many page loads does not re-run a full board load for every request.
//
// Entries carry a fixed TTL chosen by the caller: the board API publishes no
// cache validators, so freshness is a deployment policy, not a protocol
// property.
package cache
