//go:build tools
// +build tools

// Package tools documents development tool dependencies.
// These tools are run through `go run pkg@version` or installed via
// `go install`; they are not runtime dependencies of estates-web.
package tools

// Development tools:
//
// mockgen - Regenerates internal/mocks from the marketplace ports
//   Run: go generate ./internal/mocks
//   Version: v0.6.0 (same as go.uber.org/mock in go.mod)
//   Docs: https://github.com/uber-go/mock
//
// Air - Live reload while working against a local backend
//   Install: go install github.com/air-verse/air@v1.63.0
//   Version: v1.63.0 (pinned 2025-01-01)
//   Docs: https://github.com/air-verse/air
