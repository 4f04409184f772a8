/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package capacity

import (
	"fmt"
	"time"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	commonconfig "github.com/conveyorworks/conveyor/pkg/config"
)

const minPollInterval = 1000 * time.Millisecond

// ClassConfig is the scaling policy for one job class.
type ClassConfig struct {
	TaskDefinitionArn string  `mapstructure:"task_definition_arn"`
	ClusterArn        string  `mapstructure:"cluster_arn"`
	MinCapacity       int     `mapstructure:"min_capacity"`
	MaxCapacity       int     `mapstructure:"max_capacity"`
	Sensitivity       float64 `mapstructure:"sensitivity"`
	Factor            float64 `mapstructure:"factor"`
	CooldownSeconds   int     `mapstructure:"cooldown_seconds"`
	SecurityGroup     string  `mapstructure:"security_group"`
}

// Config is the full capacity-manager configuration.
type Config struct {
	PollInterval time.Duration
	ApiEndpoint  string
	Region       string
	VpcId        string
	AuthEmail    string
	AuthPassword string
	JobTypes     map[string]*ClassConfig
}

// LoadManagerConfig assembles and validates the manager configuration.
// Every fault is reported; a partially valid configuration never boots.
func LoadManagerConfig() (*Config, error) {
	cfg := &Config{
		PollInterval: time.Duration(commonconfig.GetCapacityPollIntervalMs()) * time.Millisecond,
		ApiEndpoint:  commonconfig.GetCapacityApiEndpoint(),
		Region:       commonconfig.GetCapacityRegion(),
		VpcId:        commonconfig.GetCapacityVpcId(),
		AuthEmail:    commonconfig.GetAuthEmail(),
		AuthPassword: commonconfig.GetAuthPassword(),
	}
	if err := commonconfig.UnmarshalKey(commonconfig.CapacityJobTypesKey(), &cfg.JobTypes); err != nil {
		return nil, fmt.Errorf("failed to parse job type config: %v", err)
	}

	var errs []error
	if cfg.PollInterval < minPollInterval {
		errs = append(errs, fmt.Errorf("poll_interval_ms must be at least %d", minPollInterval.Milliseconds()))
	}
	if cfg.ApiEndpoint == "" {
		errs = append(errs, fmt.Errorf("api_endpoint not found"))
	}
	if cfg.Region == "" {
		errs = append(errs, fmt.Errorf("region not found"))
	}
	if cfg.VpcId == "" {
		errs = append(errs, fmt.Errorf("vpc_id not found"))
	}
	if cfg.AuthEmail == "" || cfg.AuthPassword == "" {
		errs = append(errs, fmt.Errorf("auth credentials not found"))
	}
	if len(cfg.JobTypes) == 0 {
		errs = append(errs, fmt.Errorf("no job types configured"))
	}
	for class, cc := range cfg.JobTypes {
		errs = append(errs, cc.validate(class)...)
	}
	if err := utilerrors.NewAggregate(errs); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *ClassConfig) validate(class string) []error {
	var errs []error
	if c.TaskDefinitionArn == "" {
		errs = append(errs, fmt.Errorf("%s: task_definition_arn not found", class))
	}
	if c.ClusterArn == "" {
		errs = append(errs, fmt.Errorf("%s: cluster_arn not found", class))
	}
	if c.SecurityGroup == "" {
		errs = append(errs, fmt.Errorf("%s: security_group not found", class))
	}
	if c.MinCapacity < 0 {
		errs = append(errs, fmt.Errorf("%s: min_capacity must not be negative", class))
	}
	if c.MaxCapacity < c.MinCapacity {
		errs = append(errs, fmt.Errorf("%s: max_capacity must be at least min_capacity", class))
	}
	if c.Sensitivity <= 0 {
		errs = append(errs, fmt.Errorf("%s: sensitivity must be positive", class))
	}
	if c.Factor <= 0 {
		errs = append(errs, fmt.Errorf("%s: factor must be positive", class))
	}
	if c.CooldownSeconds < 0 {
		errs = append(errs, fmt.Errorf("%s: cooldown_seconds must not be negative", class))
	}
	return errs
}

// Cooldown returns the cooldown as a duration.
func (c *ClassConfig) Cooldown() time.Duration {
	return time.Duration(c.CooldownSeconds) * time.Second
}
