// Package fintrack implements a personal and organizational finance tracking
// backend: token-based authentication with a single-use refresh watermark,
// a guarded transaction lifecycle with soft deletes, shared bank and
// category reference data, and user-scoped analytics aggregates.
package fintrack
