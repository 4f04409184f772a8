/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package ecs

import (
	"context"
)

// TaskStatus is the normalized lifecycle state of a fleet worker task.
type TaskStatus string

const (
	TaskStatusPending TaskStatus = "PENDING"
	TaskStatusRunning TaskStatus = "RUNNING"
	TaskStatusStopped TaskStatus = "STOPPED"
)

// LaunchSpec names everything needed to start one worker task.
type LaunchSpec struct {
	TaskDefinitionArn string
	ClusterArn        string
	SecurityGroup     string
}

// TaskState is the reconciled view of one task returned by DescribeTasks.
// Missing is set when the cluster no longer knows the task at all, which
// happens after ECS garbage-collects a stopped task.
type TaskState struct {
	TaskArn   string
	RawStatus string
	Missing   bool
}

type Interface interface {
	// RunTask launches a single Fargate task and returns its ARN.
	RunTask(ctx context.Context, spec LaunchSpec) (string, error)
	// DescribeTasks resolves the current state of the given task ARNs
	// within one cluster. Every requested ARN appears in the result.
	DescribeTasks(ctx context.Context, clusterArn string, taskArns []string) ([]TaskState, error)
}
