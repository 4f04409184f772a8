/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package capacity

import (
	"context"
	"errors"
	"testing"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
)

func newTestManager(driver *fakeDriver) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		cfg:        &Config{JobTypes: map[string]*ClassConfig{}},
		driver:     driver,
		tracker:    NewTracker(),
		cooldowns:  gocache.New(gocache.NoExpiration, time.Minute),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

func TestScaleLaunchesUpToTarget(t *testing.T) {
	driver := &fakeDriver{}
	m := newTestManager(driver)
	cc := scalingConfig(0, 10, 2, 5)
	cc.CooldownSeconds = 60

	// target(50) = 5, no workers yet
	m.scale("TEST", cc, 50, 0)
	assert.Len(t, driver.launched, 5)
	assert.Equal(t, 5, m.tracker.Size())

	_, active := m.cooldowns.Get(cc.TaskDefinitionArn)
	assert.True(t, active)
}

func TestScaleRespectsCooldown(t *testing.T) {
	driver := &fakeDriver{}
	m := newTestManager(driver)
	cc := scalingConfig(0, 10, 2, 5)
	cc.CooldownSeconds = 60

	m.scale("TEST", cc, 50, 0)
	assert.Len(t, driver.launched, 5)

	// backlog persists, but the cooldown gates the second pass
	m.scale("TEST", cc, 50, 5)
	assert.Len(t, driver.launched, 5)
}

func TestScaleResumesAfterCooldownExpiry(t *testing.T) {
	driver := &fakeDriver{}
	m := newTestManager(driver)
	cc := scalingConfig(0, 10, 2, 5)
	cc.CooldownSeconds = 60

	m.scale("TEST", cc, 50, 0)
	assert.Len(t, driver.launched, 5)

	// simulate cooldown expiry
	m.cooldowns.Delete(cc.TaskDefinitionArn)

	m.scale("TEST", cc, 200, 5)
	// target(200) = round(2*ln(41)) = 7, two more workers
	assert.Len(t, driver.launched, 7)
}

func TestScaleNoLaunchWhenSatisfied(t *testing.T) {
	driver := &fakeDriver{}
	m := newTestManager(driver)
	cc := scalingConfig(0, 10, 2, 5)

	m.scale("TEST", cc, 5, 3)
	assert.Empty(t, driver.launched)
}

func TestLaunchFailureDoesNotArmCooldown(t *testing.T) {
	driver := &fakeDriver{launchErr: errors.New("no capacity")}
	m := newTestManager(driver)
	cc := scalingConfig(0, 10, 2, 5)
	cc.CooldownSeconds = 60

	m.scale("TEST", cc, 50, 0)
	assert.Empty(t, driver.launched)
	assert.Equal(t, 0, m.tracker.Size())

	_, active := m.cooldowns.Get(cc.TaskDefinitionArn)
	assert.False(t, active)
}
