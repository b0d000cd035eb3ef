// Package config loads runtime configuration for the gatekeeper CLI.
//
// Values are applied in order: built-in defaults, an optional JSON file
// selected with -c or -config, then command-line flags (-a, -t, -i).
//
// The JSON file uses timex.Duration, so durations may be strings like "3s"
// or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "request_timeout": "10s",
//	  "online_check_interval": "30s"
//	}
package config
