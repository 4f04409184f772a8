/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package capacity

import (
	"context"
	"fmt"
	"net/url"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"k8s.io/klog/v2"

	"github.com/conveyorworks/conveyor/pkg/authclient"
	"github.com/conveyorworks/conveyor/pkg/ecs"
)

// pollResponse mirrors the server's poll payload; only the fields the
// manager aggregates on are decoded.
type pollResponse struct {
	Jobs []struct {
		Id   string `json:"id"`
		Type string `json:"type"`
	} `json:"jobs"`
}

// Manager is the fleet autoscaler. One single-flight loop per process:
// each tick reconciles tracked workers against the container runtime,
// fetches the pending backlog from the server, and launches workers per
// the per-class scaling policy.
type Manager struct {
	cfg     *Config
	driver  ecs.Interface
	api     *authclient.Client
	tracker *Tracker
	// cooldowns holds one entry per task definition while its cooldown is
	// active; go-cache expires the entry after the class cooldown.
	cooldowns  *gocache.Cache
	ctx        context.Context
	cancelFunc context.CancelFunc
}

// NewManager wires the manager from configuration.
func NewManager(ctx context.Context, cfg *Config, driver ecs.Interface) (*Manager, error) {
	api, err := authclient.NewClient(cfg.ApiEndpoint, cfg.AuthEmail, cfg.AuthPassword)
	if err != nil {
		return nil, err
	}
	managerCtx, cancel := context.WithCancel(ctx)
	return &Manager{
		cfg:        cfg,
		driver:     driver,
		api:        api,
		tracker:    NewTracker(),
		cooldowns:  gocache.New(gocache.NoExpiration, time.Minute),
		ctx:        managerCtx,
		cancelFunc: cancel,
	}, nil
}

// Start runs the control loop until the context is cancelled. A new tick
// does not begin until the previous one has returned.
func (m *Manager) Start() {
	klog.Infof("capacity manager started with interval %v, %d job types",
		m.cfg.PollInterval, len(m.cfg.JobTypes))

	ticker := time.NewTicker(m.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			klog.Info("capacity manager stopped.")
			return
		case <-ticker.C:
			m.tick()
		}
	}
}

// Stop cancels the loop; in-flight calls finish or get cancelled with the
// context.
func (m *Manager) Stop() {
	m.cancelFunc()
}

func (m *Manager) tick() {
	m.tracker.Reconcile(m.ctx, m.driver)

	pendingByTaskDef, err := m.fetchPendingCounts()
	if err != nil {
		klog.ErrorS(err, "failed to fetch pending jobs, skipping tick")
		return
	}
	workersByTaskDef := m.tracker.CountByTaskDefinition()

	for class, cc := range m.cfg.JobTypes {
		pending := pendingByTaskDef[cc.TaskDefinitionArn]
		if pending == 0 {
			continue
		}
		m.scale(class, cc, pending, workersByTaskDef[cc.TaskDefinitionArn])
	}
}

// fetchPendingCounts polls the server once per configured class and
// aggregates the backlog per task definition.
func (m *Manager) fetchPendingCounts() (map[string]int, error) {
	counts := make(map[string]int)
	for class, cc := range m.cfg.JobTypes {
		rsp := &pollResponse{}
		path := fmt.Sprintf("/api/jobs/poll?jobType=%s", url.QueryEscape(class))
		if err := m.api.Get(path, rsp); err != nil {
			return nil, fmt.Errorf("poll %s: %w", class, err)
		}
		counts[cc.TaskDefinitionArn] += len(rsp.Jobs)
	}
	return counts, nil
}

func (m *Manager) scale(class string, cc *ClassConfig, pending, workers int) {
	if _, active := m.cooldowns.Get(cc.TaskDefinitionArn); active {
		klog.V(4).Infof("scaling %s skipped: cooldown active", class)
		return
	}
	target := targetCapacity(pending, cc)
	diff := target - workers
	klog.Infof("scaling %s: pending=%d workers=%d target=%d", class, pending, workers, target)
	if diff <= 0 {
		// scale-in is delegated to worker self-termination
		return
	}
	m.launch(class, cc, diff)
}

// launch starts count workers sequentially. The cooldown is armed only
// after at least one launch succeeded.
func (m *Manager) launch(class string, cc *ClassConfig, count int) {
	launched := 0
	for i := 0; i < count; i++ {
		taskArn, err := m.driver.RunTask(m.ctx, ecs.LaunchSpec{
			TaskDefinitionArn: cc.TaskDefinitionArn,
			ClusterArn:        cc.ClusterArn,
			SecurityGroup:     cc.SecurityGroup,
		})
		if err != nil {
			klog.ErrorS(err, "failed to launch worker", "class", class)
			continue
		}
		m.tracker.Add(taskArn, cc.TaskDefinitionArn, cc.ClusterArn)
		launched++
		klog.Infof("launched worker %s for %s", taskArn, class)
	}
	if launched > 0 && cc.CooldownSeconds > 0 {
		m.cooldowns.Set(cc.TaskDefinitionArn, time.Now().UTC(), cc.Cooldown())
	}
}
