// Package middleware provides observability for crumbtrail servers.
//
// # Prometheus Metrics
//
// Metrics observes breadcrumb stores, tree renders and live sessions, and
// counts HTTP requests:
//
//	metrics := middleware.Prometheus(middleware.WithRegistry(reg))
//
//	srv := server.New(&server.ServerConfig{Observer: metrics})
//	srv.Use(metrics.Handler)
//	srv.Mount("/metrics", metrics.Endpoint())
//
//	breadcrumb.Provider(breadcrumb.Config{Observer: metrics}, ...)
//
// # OpenTelemetry
//
// OpenTelemetry starts a server span for every HTTP request. Page renders
// and live navigations started by pkg/server create child spans named
// crumbs.render and crumbs.navigate.
//
//	srv.Use(middleware.OpenTelemetry(
//	    middleware.WithTracerName("my-app"),
//	))
package middleware
