// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/hgresolve/internal/adapters/config"
	_ "go.trai.ch/hgresolve/internal/adapters/detector"
	_ "go.trai.ch/hgresolve/internal/adapters/fs"
	_ "go.trai.ch/hgresolve/internal/adapters/hg"
	_ "go.trai.ch/hgresolve/internal/adapters/logger"
	_ "go.trai.ch/hgresolve/internal/adapters/meta"
	_ "go.trai.ch/hgresolve/internal/adapters/shell"
	_ "go.trai.ch/hgresolve/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "go.trai.ch/hgresolve/internal/app"
	_ "go.trai.ch/hgresolve/internal/engine/metadata"
	_ "go.trai.ch/hgresolve/internal/engine/refcache"
	_ "go.trai.ch/hgresolve/internal/engine/resolution"
	_ "go.trai.ch/hgresolve/internal/engine/resolver"
)
