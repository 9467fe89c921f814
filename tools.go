//go:build tools

package tools

// This file tracks versions of CLI tool dependencies.
// It is not compiled into the binary.
//
// Mocks in *_mock_test.go are generated with:
// - github.com/matryer/moq
// Run `go generate ./...` after changing a consumer-side interface.
