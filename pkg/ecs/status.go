/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package ecs

import (
	"k8s.io/klog/v2"
)

var rawStatusMapping = map[string]TaskStatus{
	"PROVISIONING":   TaskStatusPending,
	"PENDING":        TaskStatusPending,
	"ACTIVATING":     TaskStatusPending,
	"RUNNING":        TaskStatusRunning,
	"DEACTIVATING":   TaskStatusStopped,
	"STOPPING":       TaskStatusStopped,
	"STOPPED":        TaskStatusStopped,
	"DEPROVISIONING": TaskStatusStopped,
	"DEPROVISIONED":  TaskStatusStopped,
}

// NormalizeStatus maps a raw ECS lastStatus onto the coarse lifecycle used
// for capacity accounting. Unrecognized statuses keep the previous value so
// a transient API novelty never flips a worker's accounting state.
func NormalizeStatus(raw string, previous TaskStatus) TaskStatus {
	if status, ok := rawStatusMapping[raw]; ok {
		return status
	}
	klog.Warningf("unknown ecs task status %q, keeping %s", raw, previous)
	return previous
}
