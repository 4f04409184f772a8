/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"k8s.io/klog/v2"

	"github.com/conveyorworks/conveyor/pkg/capacity"
	commonconfig "github.com/conveyorworks/conveyor/pkg/config"
	"github.com/conveyorworks/conveyor/pkg/ecs"
	commonklog "github.com/conveyorworks/conveyor/pkg/klog"
	"github.com/conveyorworks/conveyor/pkg/options"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	opts := &options.Options{}
	if err := opts.InitFlags(); err != nil {
		return err
	}
	if err := commonklog.Init(opts.LogfilePath, opts.LogFileSize); err != nil {
		return err
	}
	fullPath, err := filepath.Abs(opts.Config)
	if err != nil {
		return err
	}
	if err = commonconfig.LoadConfig(fullPath); err != nil {
		return fmt.Errorf("config path: %s, err: %v", fullPath, err)
	}

	cfg, err := capacity.LoadManagerConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	driver, err := ecs.NewDriver(ctx, cfg.Region, cfg.VpcId)
	if err != nil {
		return err
	}
	manager, err := capacity.NewManager(ctx, cfg, driver)
	if err != nil {
		return err
	}

	go manager.Start()
	<-ctx.Done()
	manager.Stop()
	klog.Info("capacity-manager is stopped")
	klog.Flush()
	return nil
}
