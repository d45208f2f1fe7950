// Package timeouts defines shared timeout constants used across services.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long servers wait for in-flight requests during
// graceful shutdown.
const Shutdown = 5 * time.Second

// RoleInfo caps a single call to the role-info collaborator.
const RoleInfo = 3 * time.Second

// Submission caps one save-as-template or publish operation, including
// tenant provisioning.
const Submission = 10 * time.Second
