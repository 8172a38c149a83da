package config

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/hgresolve/internal/adapters/logger"
	"go.trai.ch/hgresolve/internal/core/domain"
	"go.trai.ch/hgresolve/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// NodeID is the unique identifier for the config loader Graft node.
	NodeID graft.ID = "adapter.config_loader"

	// ValuesNodeID is the unique identifier for the loaded configuration.
	ValuesNodeID graft.ID = "adapter.config"
)

func init() {
	graft.Register(graft.Node[ports.ConfigLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ConfigLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log), nil
		},
	})

	graft.Register(graft.Node[domain.Config]{
		ID:        ValuesNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{NodeID},
		Run: func(ctx context.Context) (domain.Config, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return domain.Config{}, err
			}
			cwd, err := os.Getwd()
			if err != nil {
				return domain.Config{}, zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
			}
			return loader.Load(cwd)
		},
	})
}
