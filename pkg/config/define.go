/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package config

const (
	// server
	serverPrefix      = "server."
	serverPort        = serverPrefix + "port"
	serverTokenSecret = serverPrefix + "token_secret"

	// auth (worker service account used by the capacity manager)
	authPrefix   = "auth."
	authEmail    = authPrefix + "email"
	authPassword = authPrefix + "password"

	// database
	dbPrefix                 = "database."
	dbHost                   = dbPrefix + "host"
	dbPort                   = dbPrefix + "port"
	dbName                   = dbPrefix + "dbname"
	dbUser                   = dbPrefix + "user"
	dbPassword               = dbPrefix + "password"
	dbSslMode                = dbPrefix + "ssl_mode"
	dbMaxOpenConns           = dbPrefix + "max_open_conns"
	dbMaxIdleConns           = dbPrefix + "max_idle_conns"
	dbMaxLifetimeSecond      = dbPrefix + "max_lifetime_second"
	dbMaxIdleTimeSecond      = dbPrefix + "max_idle_time_second"
	dbConnectTimeoutSecond   = dbPrefix + "connect_timeout_second"
	dbRequestTimeoutSecond   = dbPrefix + "request_timeout_second"
	defaultDBRequestTimeout  = 30
	defaultDBConnectTimeout  = 10
	defaultDBMaxLifetime     = 3600
	defaultDBMaxIdleLifetime = 600

	// s3
	s3Prefix       = "s3."
	s3Region       = s3Prefix + "region"
	s3Endpoint     = s3Prefix + "endpoint"
	s3Bucket       = s3Prefix + "bucket"
	s3ObjectPrefix = s3Prefix + "prefix"

	// sweeper
	sweeperPrefix         = "sweeper."
	sweeperEnable         = sweeperPrefix + "enable"
	sweeperIntervalSecond = sweeperPrefix + "interval_second"
	sweeperGraceSecond    = sweeperPrefix + "grace_second"

	// capacity manager
	capacityPrefix       = "capacity."
	capacityPollInterval = capacityPrefix + "poll_interval_ms"
	capacityApiEndpoint  = capacityPrefix + "api_endpoint"
	capacityRegion       = capacityPrefix + "region"
	capacityVpcId        = capacityPrefix + "vpc_id"
	capacityJobTypes     = capacityPrefix + "job_types"
)
