/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package capacity

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/conveyorworks/conveyor/pkg/ecs"
)

type fakeDriver struct {
	states    map[string]ecs.TaskState
	launchErr error
	launched  []ecs.LaunchSpec
	failAll   bool
}

// RunTask mints a unique task ARN per launch, like the real control plane.
func (f *fakeDriver) RunTask(_ context.Context, spec ecs.LaunchSpec) (string, error) {
	if f.launchErr != nil {
		return "", f.launchErr
	}
	f.launched = append(f.launched, spec)
	return fmt.Sprintf("arn:aws:ecs:task/%s/%d", spec.TaskDefinitionArn, len(f.launched)), nil
}

func (f *fakeDriver) DescribeTasks(_ context.Context, _ string, taskArns []string) ([]ecs.TaskState, error) {
	if f.failAll {
		return nil, errors.New("api unavailable")
	}
	var states []ecs.TaskState
	for _, arn := range taskArns {
		if state, ok := f.states[arn]; ok {
			states = append(states, state)
		}
	}
	return states, nil
}

func TestReconcileUpdatesStatus(t *testing.T) {
	tracker := NewTracker()
	tracker.Add("task-1", "td-1", "cluster-1")
	tracker.Add("task-2", "td-1", "cluster-1")

	driver := &fakeDriver{states: map[string]ecs.TaskState{
		"task-1": {TaskArn: "task-1", RawStatus: "RUNNING"},
		"task-2": {TaskArn: "task-2", RawStatus: "PROVISIONING"},
	}}
	tracker.Reconcile(context.Background(), driver)

	assert.Equal(t, 2, tracker.Size())
	assert.Equal(t, map[string]int{"td-1": 2}, tracker.CountByTaskDefinition())
}

func TestReconcileEvictsStoppedAndMissing(t *testing.T) {
	tracker := NewTracker()
	tracker.Add("task-stopped", "td-1", "cluster-1")
	tracker.Add("task-missing", "td-1", "cluster-1")
	tracker.Add("task-absent", "td-1", "cluster-1")
	tracker.Add("task-live", "td-1", "cluster-1")

	driver := &fakeDriver{states: map[string]ecs.TaskState{
		"task-stopped": {TaskArn: "task-stopped", RawStatus: "STOPPED"},
		"task-missing": {TaskArn: "task-missing", Missing: true},
		"task-live":    {TaskArn: "task-live", RawStatus: "RUNNING"},
	}}
	tracker.Reconcile(context.Background(), driver)

	assert.Equal(t, 1, tracker.Size())
	assert.Equal(t, map[string]int{"td-1": 1}, tracker.CountByTaskDefinition())
}

func TestReconcileKeepsViewOnApiError(t *testing.T) {
	tracker := NewTracker()
	tracker.Add("task-1", "td-1", "cluster-1")

	tracker.Reconcile(context.Background(), &fakeDriver{failAll: true})
	assert.Equal(t, 1, tracker.Size())
}

func TestReconcileUnknownStatusKeepsWorker(t *testing.T) {
	tracker := NewTracker()
	tracker.Add("task-1", "td-1", "cluster-1")

	driver := &fakeDriver{states: map[string]ecs.TaskState{
		"task-1": {TaskArn: "task-1", RawStatus: "HIBERNATING"},
	}}
	tracker.Reconcile(context.Background(), driver)

	assert.Equal(t, 1, tracker.Size())
	assert.Equal(t, map[string]int{"td-1": 1}, tracker.CountByTaskDefinition())
}
