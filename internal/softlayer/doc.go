// Package softlayer is the transport boundary to the SoftLayer REST API.
//
// A Client turns a Request (service, method, optional object ID, object mask,
// object filter, result limit and positional parameters) into a single HTTP
// call against {endpoint}/{Service}[/{ID}]/{Method}.json and decodes the JSON
// response into a typed record from types.go. Callers depend on the Caller
// interface so that managers can be exercised against fakes.
//
// Authentication uses either HTTP basic auth (username and API key) or a
// bearer access token. A client-side rate limiter spaces requests; nothing
// is retried, since most mutating calls are billing-relevant and not
// idempotent.
//
// Failed calls surface as *RemoteOperationError carrying the SoftLayer
// exception code and message verbatim.
package softlayer
