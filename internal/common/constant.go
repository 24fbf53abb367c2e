// Package common contains constants and sentinel errors shared by the
// fanbox server, its transports and the CLI client.
package common

import "time"

// AccessTokenName is the header, gRPC metadata key and cookie name that
// carries a session token on every channel.
const AccessTokenName = "access-token"

// DefaultTokenValidity is the lifetime of a session token unless configured otherwise.
const DefaultTokenValidity = 24 * time.Hour
