/*
Package monitoring provides performance monitoring and metrics collection.

# Overview

This package implements Prometheus-based metrics collection for the backend
service, tracking HTTP requests, service tool calls, dataset residency, and
system metrics.

# Features

- HTTP request metrics (latency, throughput, size)
- Service call metrics (duration, errors)
- Tomography dataset residency gauge
- System metrics (uptime)

# Usage

	// Create metrics collector
	metrics := monitoring.NewMetrics()

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Record custom metrics
	metrics.SetDatasetsLive(3)

	// Time operations
	timer := monitoring.NewTimer(metrics, "imgproc", "arithmetic")
	// ... perform operation ...
	timer.Stop("success")

# Metrics Endpoint

Each collector owns its registry; expose it via promhttp:

	import "github.com/prometheus/client_golang/prometheus/promhttp"
	handler := promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})
	router.GET("/metrics", gin.WrapH(handler))
*/
package monitoring
