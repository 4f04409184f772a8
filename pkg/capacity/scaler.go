/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package capacity

import (
	"math"
)

// targetCapacity computes the desired worker count for a pending-job count.
// The logarithmic curve gives diminishing returns so a burst of jobs does
// not overshoot the fleet.
func targetCapacity(pending int, cfg *ClassConfig) int {
	if pending <= 0 {
		return cfg.MinCapacity
	}
	raw := cfg.Sensitivity*math.Log(float64(pending)/cfg.Factor+1) + float64(cfg.MinCapacity)
	target := int(math.Round(raw))
	if target < cfg.MinCapacity {
		target = cfg.MinCapacity
	}
	if target > cfg.MaxCapacity {
		target = cfg.MaxCapacity
	}
	// any backlog at all deserves at least one worker
	if target < 1 {
		target = 1
	}
	return target
}
