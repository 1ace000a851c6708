// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"

	"github.com/MKhiriev/vaultscribe/internal/app"
)

var errNoServices = errors.New("tui: auth and summary services are required")

// errorText is the line shown to the user for err.
func errorText(err error) string {
	return app.MessageFor(err)
}
