// Package profile manages named SoftLayer API profiles for the slcli CLI.
//
// A profile bundles the credentials and endpoint for one account so users
// can switch between accounts without passing them on every command.
//
// # Configuration File
//
// Profiles are stored in ~/.config/slcli/profiles.yaml:
//
//	current-profile: production
//	profiles:
//	  - name: staging
//	    username: SL123456
//	    api-key: 0123abcd...
//	  - name: production
//	    access-token: eyJhbGciOi...
//	    endpoint: https://api.service.softlayer.com/rest/v3.1
//	    settings:
//	      output: json
//
// The file holds secrets and is written with mode 0600.
//
// # Precedence
//
// When deciding which credentials to use, slcli checks in this order:
//  1. --endpoint / --profile flags
//  2. SL_USERNAME, SL_API_KEY, SL_ACCESS_TOKEN and SL_API_ENDPOINT
//  3. SL_PROFILE
//  4. current-profile from profiles.yaml
//  5. config.yaml defaults
//
// Storage is safe for concurrent use within one process only.
package profile
