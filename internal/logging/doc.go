// Package logging assembles the structured slog loggers used across the
// langworker service.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes attribute helpers plus a no-op logger so wiring code
// and tests never need hand-rolled slog setup. Request handlers tag lines
// with component names and correlation IDs through the helpers here so every
// subsystem emits data with the same shape.
package logging
