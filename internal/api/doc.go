// Package api contains the HTTP handlers: the notification webhook
// ingress that feeds the work queue, and the authenticated records
// query API over the outcome ledger.
//
// The webhook ingress is deliberately opaque: every failure, from a
// wrong path to a malformed payload, produces an empty 404 response so
// the endpoint is indistinguishable from a nonexistent one.
package api
