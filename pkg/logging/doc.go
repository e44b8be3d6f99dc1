// Package logging provides the subsystem-scoped logger used across slcli.
//
// It is a thin layer over log/slog: every entry carries a "subsystem"
// attribute and, for failures, an "error" attribute. Diagnostics go to
// stderr so they never mix with command output on stdout.
//
// # Usage
//
//	logging.InitForCLI(logging.LevelWarn, os.Stderr)
//
//	logging.Debug("API", "GET %s", url)
//	logging.Info("ConfigLoader", "Loaded configuration from %s", path)
//	logging.Warn("DNS", "No reverse domain for %s", ip)
//	logging.Error("CCI", err, "Failed to load instance %d", id)
//
// Messages below the configured level are dropped before formatting.
// Until InitForCLI is called, only warnings and errors are emitted to stderr.
package logging
