// Package config loads configuration for the below importer.
//
// Configuration is layered: hardcoded defaults, then an optional YAML
// file, then environment variable overrides. The resulting Config value
// is passed explicitly into the pipeline; nothing reads the environment
// after Load returns, which keeps the pipeline testable without
// environment mutation.
//
// # Environment variables
//
//	BELOW                exporter command line override (space-separated)
//	DOCKER               container runtime executable (default "docker")
//	BELOW_IMPORT_CONFIG  configuration file path
//
// # Configuration file
//
//	exporter:
//	  image: "below/below:latest"
//	  store_dir: "/var/log/below/"
//	  pull: true
//	runtime:
//	  binary: "docker"
//	prometheus:
//	  service: "prometheus"
//	  import_path: "/import.txt"
//	  data_dir: "/prometheus"
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "text"     # json, text
//	  output: "stderr"   # stdout, stderr
package config
