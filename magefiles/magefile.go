//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main provides build targets for the tierboard project using Mage.
//
// Usage:
//
//	mage build          Compile tierboard binary to bin/
//	mage test:all       Run all tests
//	mage test:race      Run all tests with the race detector
//	mage test:cover     Run all tests and write coverage.out
//	mage vet            Run go vet and a gofmt check
//	mage lint           Run vet, then golangci-lint
//	mage clean          Remove build artifacts
//	mage install        Install tierboard to GOPATH/bin
//	mage stats          Print per-package Go line counts as JSON
package main
