package hg

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/hgresolve/internal/adapters/config"
	"go.trai.ch/hgresolve/internal/adapters/detector"
	"go.trai.ch/hgresolve/internal/adapters/shell"
	"go.trai.ch/hgresolve/internal/core/domain"
	"go.trai.ch/hgresolve/internal/core/ports"
	"go.trai.ch/zerr"
)

// NodeID is the unique identifier for the hg backend Graft node.
const NodeID graft.ID = "adapter.hg"

func init() {
	graft.Register(graft.Node[ports.Backend]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, config.ValuesNodeID, detector.NodeID},
		Run: func(ctx context.Context) (ports.Backend, error) {
			runner, err := graft.Dep[ports.CommandRunner](ctx)
			if err != nil {
				return nil, err
			}
			cfg, err := graft.Dep[domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			env, err := graft.Dep[detector.Environment](ctx)
			if err != nil {
				return nil, err
			}

			emptyDir := domain.DefaultEmptyDir()
			if err := os.MkdirAll(emptyDir, domain.DirPerm); err != nil {
				return nil, zerr.With(zerr.Wrap(err, domain.ErrTempDirFailed.Error()), "path", emptyDir)
			}

			return New(runner, cfg.HG.Executable, WithTemplateDir(emptyDir), WithTTY(env.Interactive))
		},
	})
}
