/*
Package monitoring provides Prometheus metrics for the HTTP server and the
file and user resources.

# Overview

Every Metrics value owns a private registry, so several servers (and tests)
can coexist in one process without duplicate-registration panics.

# Features

- HTTP request metrics (latency, throughput, size)
- File operation counters by operation and outcome
- User operation counters by operation and outcome
- Uptime gauge

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics, "file", "create")
	// ... perform operation ...
	timer.Stop("success")
*/
package monitoring
