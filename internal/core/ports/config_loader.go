package ports

import "go.trai.ch/hgresolve/internal/core/domain"

// ConfigLoader defines the interface for loading the resolver configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load discovers the configuration file starting at cwd.
	// A missing file yields domain.DefaultConfig.
	Load(cwd string) (domain.Config, error)
}
