package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

const defaultIdleTTL = 2 * time.Hour

type idleSweeper interface {
	SweepIdle(ctx context.Context, cutoff time.Time) (int, error)
}

type WorkspaceSweepJobParams struct {
	Logger  *logger.Logger
	Sweeper idleSweeper
	IdleTTL time.Duration
}

// NewWorkspaceSweepJob tears down workspaces that have not been used for IdleTTL.
func NewWorkspaceSweepJob(params WorkspaceSweepJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Sweeper == nil {
		return nil, fmt.Errorf("workspace sweeper required")
	}
	ttl := params.IdleTTL
	if ttl <= 0 {
		ttl = defaultIdleTTL
	}
	return &workspaceSweepJob{
		logg:    params.Logger,
		sweeper: params.Sweeper,
		idleTTL: ttl,
		now:     time.Now,
	}, nil
}

type workspaceSweepJob struct {
	logg    *logger.Logger
	sweeper idleSweeper
	idleTTL time.Duration
	now     func() time.Time
}

func (j *workspaceSweepJob) Name() string { return "workspace-sweep" }

func (j *workspaceSweepJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.idleTTL)
	swept, err := j.sweeper.SweepIdle(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("workspace sweep: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":           cutoff,
		"workspaces_swept": swept,
	})
	j.logg.Info(logCtx, "workspace sweep complete")
	return nil
}
