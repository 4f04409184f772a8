/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package jobservice

import (
	"context"
	"time"

	"k8s.io/klog/v2"

	commonconfig "github.com/conveyorworks/conveyor/pkg/config"
	dbclient "github.com/conveyorworks/conveyor/pkg/database/client"
)

// Sweeper is the background process that times out abandoned jobs: an
// IN_PROGRESS job whose last assignment expired more than the grace period
// ago transitions to TIMED_OUT, which also frees its fingerprint for
// resubmission.
type Sweeper struct {
	dbClient   *dbclient.Client
	interval   time.Duration
	grace      time.Duration
	ctx        context.Context
	cancelFunc context.CancelFunc
}

// NewSweeper creates a Sweeper instance from configuration.
func NewSweeper(ctx context.Context, dbClient *dbclient.Client) *Sweeper {
	interval := time.Duration(commonconfig.GetSweeperIntervalSecond()) * time.Second
	grace := time.Duration(commonconfig.GetSweeperGraceSecond()) * time.Second

	if interval <= 0 {
		interval = time.Minute
	}
	if grace < 0 {
		grace = 0
	}

	sweeperCtx, cancel := context.WithCancel(ctx)
	return &Sweeper{
		dbClient:   dbClient,
		interval:   interval,
		grace:      grace,
		ctx:        sweeperCtx,
		cancelFunc: cancel,
	}
}

// Start begins the periodic sweep.
func (s *Sweeper) Start() {
	if !commonconfig.IsSweeperEnable() {
		klog.Info("Job sweeper is disabled.")
		return
	}
	if s.dbClient == nil {
		klog.Warning("Job sweeper cannot start: database client is nil.")
		return
	}

	klog.Infof("Job sweeper started with interval: %v, grace: %v", s.interval, s.grace)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			klog.Info("Job sweeper stopped.")
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

// Stop gracefully stops the sweeping process.
func (s *Sweeper) Stop() {
	s.cancelFunc()
}

func (s *Sweeper) sweep() {
	klog.V(4).Info("Checking for timed out jobs...")
	jobIds, err := s.dbClient.SweepTimedOutJobs(s.ctx, s.grace)
	if err != nil {
		klog.ErrorS(err, "Failed to sweep timed out jobs")
		return
	}
	if len(jobIds) == 0 {
		klog.V(4).Info("No jobs found needing timeout.")
		return
	}
	klog.Infof("Timed out %d jobs: %v", len(jobIds), jobIds)
}
