/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package capacity

import (
	"context"
	"sync"
	"time"

	"github.com/samber/lo"
	"k8s.io/klog/v2"

	"github.com/conveyorworks/conveyor/pkg/ecs"
)

// describeBatchSize is the ECS DescribeTasks request limit.
const describeBatchSize = 100

// TrackedWorker is one task the manager launched and still accounts for.
// The table is advisory: it is rebuilt against the container runtime on
// every tick and lost entirely on restart.
type TrackedWorker struct {
	TaskArn           string
	TaskDefinitionArn string
	ClusterArn        string
	StartedAt         time.Time
	Status            ecs.TaskStatus
}

// Tracker is the in-memory table of launched workers.
type Tracker struct {
	mu      sync.Mutex
	workers map[string]*TrackedWorker
}

func NewTracker() *Tracker {
	return &Tracker{workers: make(map[string]*TrackedWorker)}
}

// Add registers a freshly launched task in PENDING.
func (t *Tracker) Add(taskArn, taskDefinitionArn, clusterArn string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.workers[taskArn] = &TrackedWorker{
		TaskArn:           taskArn,
		TaskDefinitionArn: taskDefinitionArn,
		ClusterArn:        clusterArn,
		StartedAt:         time.Now().UTC(),
		Status:            ecs.TaskStatusPending,
	}
}

// CountByTaskDefinition returns the live (non-stopped) worker count per
// task definition.
func (t *Tracker) CountByTaskDefinition() map[string]int {
	t.mu.Lock()
	defer t.mu.Unlock()
	counts := make(map[string]int)
	for _, w := range t.workers {
		if w.Status != ecs.TaskStatusStopped {
			counts[w.TaskDefinitionArn]++
		}
	}
	return counts
}

// Reconcile refreshes every tracked worker's status from the container
// runtime. Workers reported missing, absent from the response, or stopped
// are evicted.
func (t *Tracker) Reconcile(ctx context.Context, driver ecs.Interface) {
	byCluster := t.snapshotByCluster()
	for clusterArn, taskArns := range byCluster {
		seen := make(map[string]ecs.TaskState)
		failed := false
		for _, chunk := range lo.Chunk(taskArns, describeBatchSize) {
			states, err := driver.DescribeTasks(ctx, clusterArn, chunk)
			if err != nil {
				klog.ErrorS(err, "failed to reconcile workers", "cluster", clusterArn)
				failed = true
				break
			}
			for _, state := range states {
				seen[state.TaskArn] = state
			}
		}
		if failed {
			// keep the previous view rather than evicting on an API error
			continue
		}
		t.applyStates(clusterArn, taskArns, seen)
	}
}

func (t *Tracker) snapshotByCluster() map[string][]string {
	t.mu.Lock()
	defer t.mu.Unlock()
	byCluster := make(map[string][]string)
	for _, w := range t.workers {
		byCluster[w.ClusterArn] = append(byCluster[w.ClusterArn], w.TaskArn)
	}
	return byCluster
}

func (t *Tracker) applyStates(clusterArn string, taskArns []string, seen map[string]ecs.TaskState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, taskArn := range taskArns {
		worker, ok := t.workers[taskArn]
		if !ok {
			continue
		}
		state, found := seen[taskArn]
		if !found || state.Missing {
			klog.Infof("evicting worker %s: no longer known to cluster %s", taskArn, clusterArn)
			delete(t.workers, taskArn)
			continue
		}
		worker.Status = ecs.NormalizeStatus(state.RawStatus, worker.Status)
		if worker.Status == ecs.TaskStatusStopped {
			klog.Infof("evicting worker %s: stopped", taskArn)
			delete(t.workers, taskArn)
		}
	}
}

// Size returns the number of tracked workers.
func (t *Tracker) Size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.workers)
}
