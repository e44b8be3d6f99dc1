// Package cli holds the plumbing shared by slcli commands.
//
// # Session
//
// NewSession is the dependency-injection point for every command: it loads
// configuration, resolves credentials (flags, SL_* environment, profiles,
// config.yaml), builds the SoftLayer client and hands out the managers and
// the confirmation guard that commands call into. Tests build sessions
// against a mock API server by pointing --endpoint at it.
//
// # Output
//
// Printer renders command results in one of four formats:
//   - table: kubectl-style plain columns, easy to grep and cut
//   - pretty: rounded box tables from go-pretty
//   - json: indented JSON of the typed records
//   - yaml: YAML of the same records
//
// # Errors
//
// ClassifyConnectionError turns transport failures into a ConnectionError
// with guidance for the user.
package cli
