// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the terminal client runtime.
//
// It ties the terminal UI to the in-process services and keeps the
// background summary workers running for as long as the UI is open.
package client
