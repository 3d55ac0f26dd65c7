// Package config loads the configuration of a crumbtrail server.
//
// The configuration lives in crumbs.json, crumbs.yaml or crumbs.yml at the
// project root. Every field is optional; missing fields take defaults and
// a missing file means all defaults.
//
// # Configuration File Structure
//
//	server:
//	  address: "localhost:3000"
//	  title: "Shop"
//	  maxSessions: 1000
//	session:
//	  heartbeatInterval: "30s"
//	  maxPasses: 8
//	breadcrumb:
//	  homeLabel: "Início"
//	  separator: "/"
//	metrics:
//	  enabled: true
//	log:
//	  level: debug
//	  format: json
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv := server.New(cfg.ServerConfig())
package config
