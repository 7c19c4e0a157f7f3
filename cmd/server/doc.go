// Package main is the entry point for the Gridline compute server.
//
// The server exposes the operation dispatcher, the expression evaluator,
// curve fitting, and (when a reconstruction backend is wired in) the
// tomography pipeline over a single REST surface.
//
// Architecture:
//
//	Client → Go Backend → Reconstruction Backend (external, optional)
//
// The server provides:
//   - REST API for tool execution and discovery
//   - Dataset lifecycle management for tomography
//   - Prometheus metrics and request tracing
//   - Rate limiting and CORS
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	./server -port 8000
//
//	# Bind to loopback only
//	./server -host 127.0.0.1
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
