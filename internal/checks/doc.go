// Package checks provides probe operations for common infrastructure:
// HTTP endpoints, TCP ports, DNS names, local commands, SQL databases,
// Redis, MongoDB and Kubernetes clusters.
//
// Every constructor returns a probe.Operation that can be handed to
// Engine.Retry, Engine.Must or Engine.Try. Failures carry a stack trace.
package checks
