/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package utils

import (
	"fmt"
	"time"

	"github.com/conveyorworks/conveyor/pkg/config"
)

type DBConfig struct {
	DBName         string
	Username       string
	Password       string
	Host           string
	SSLMode        string
	Port           int
	MaxIdleConns   int
	MaxOpenConns   int
	MaxIdleTime    time.Duration
	MaxLifetime    time.Duration
	ConnectTimeout int
	RequestTimeout time.Duration
}

func (c *DBConfig) SourceName() string {
	return fmt.Sprintf("user=%s password=%s dbname=%s host=%s port=%d sslmode=%s connect_timeout=%d",
		c.Username, c.Password, c.DBName, c.Host, c.Port, c.SSLMode, c.ConnectTimeout)
}

// NewDBConfigFromConfig assembles the connection settings from the loaded
// configuration file.
func NewDBConfigFromConfig() *DBConfig {
	return &DBConfig{
		DBName:         config.GetDBName(),
		Username:       config.GetDBUser(),
		Password:       config.GetDBPassword(),
		Host:           config.GetDBHost(),
		SSLMode:        config.GetDBSslMode(),
		Port:           config.GetDBPort(),
		MaxIdleConns:   config.GetDBMaxIdleConns(),
		MaxOpenConns:   config.GetDBMaxOpenConns(),
		MaxIdleTime:    time.Duration(config.GetDBMaxIdleTimeSecond()) * time.Second,
		MaxLifetime:    time.Duration(config.GetDBMaxLifetimeSecond()) * time.Second,
		ConnectTimeout: config.GetDBConnectTimeoutSecond(),
		RequestTimeout: time.Duration(config.GetDBRequestTimeoutSecond()) * time.Second,
	}
}
