// Package guard resolves user-supplied resource identifiers and gates
// state-changing calls behind a confirmation step.
//
// Every mutating slcli command follows the same three steps:
//
//  1. Resolve the token (numeric ID, hostname or IP address) to exactly one
//     canonical ID with a Resolver.
//  2. Ask the Confirmer for a Decision, either with a standard yes/no prompt
//     or, for irreversible actions, by requiring the ID to be typed back.
//  3. Invoke the remote call once with the resolved ID.
//
// Execute runs these steps for an Action descriptor. A failed resolution or
// a declined confirmation means the remote call is never made. Results and
// errors of the remote call are returned unchanged and never retried.
//
// The error types in this package (NotFoundError, AmbiguousIdentifierError,
// AbortedError, ValidationError) are mapped to exit codes by the command
// layer.
package guard
