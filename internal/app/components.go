package app

import (
	"go.trai.ch/hgresolve/internal/adapters/detector"
	"go.trai.ch/hgresolve/internal/core/ports"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
	Env    detector.Environment
}
