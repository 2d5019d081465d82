// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package log re-exports the logger type the rest of this module
// depends on, so callers write log.Logger rather than reaching past
// this package into github.com/luxfi/log directly.
package log

import "github.com/luxfi/log"

// Logger is the structured logger interface every component in this
// module accepts rather than constructs; production wiring supplies a
// real github.com/luxfi/log logger, tests default to NewNoOpLogger.
type Logger = log.Logger
