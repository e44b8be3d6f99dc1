// Package config loads slcli settings.
//
// Settings come from three layers, later layers winning:
//  1. built-in defaults (see Default)
//  2. config.yaml in the configuration directory (~/.config/slcli by default,
//     or --config-path)
//  3. SL_* environment variables
//
// Example config.yaml:
//
//	api:
//	  endpoint: https://api.softlayer.com/rest/v3.1
//	  timeout: 30s
//	  requests-per-second: 5
//	cci:
//	  poll-interval: 15s
//	dns:
//	  ttl: 3600
//	output: table
//
// Credentials normally live in profiles (see internal/profile); the
// username, api-key and access-token keys exist so a single-account setup
// can keep everything in one file.
package config
