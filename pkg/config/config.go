/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package config

import (
	"strings"

	"github.com/spf13/viper"
)

func SetValue(key, value string) {
	viper.Set(key, value)
}

func UnmarshalKey(key string, rawVal interface{}) error {
	return viper.UnmarshalKey(key, rawVal)
}

func LoadConfig(path string) error {
	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")
	return viper.ReadInConfig()
}

func getString(key, defaultValue string) string {
	if !viper.IsSet(key) {
		return defaultValue
	}
	return viper.GetString(key)
}

func getBool(key string, defaultValue bool) bool {
	if !viper.IsSet(key) {
		return defaultValue
	}
	return viper.GetBool(key)
}

func getInt(key string, defaultValue int) int {
	if !viper.IsSet(key) {
		return defaultValue
	}
	return viper.GetInt(key)
}

func getStrings(key string) []string {
	val := viper.GetString(key)
	return removeBlank(strings.Split(val, ","))
}

func removeBlank(slice []string) []string {
	var result []string
	for _, val := range slice {
		if trim := strings.TrimSpace(val); trim != "" {
			result = append(result, trim)
		}
	}
	return result
}

func GetServerPort() int {
	return getInt(serverPort, 8080)
}

func GetTokenSecret() string {
	return getString(serverTokenSecret, "")
}

func GetAuthEmail() string {
	return getString(authEmail, "")
}

func GetAuthPassword() string {
	return getString(authPassword, "")
}

func GetDBHost() string {
	return getString(dbHost, "")
}

func GetDBPort() int {
	return getInt(dbPort, 5432)
}

func GetDBName() string {
	return getString(dbName, "")
}

func GetDBUser() string {
	return getString(dbUser, "")
}

func GetDBPassword() string {
	return getString(dbPassword, "")
}

func GetDBSslMode() string {
	return getString(dbSslMode, "require")
}

func GetDBMaxOpenConns() int {
	return getInt(dbMaxOpenConns, 100)
}

func GetDBMaxIdleConns() int {
	return getInt(dbMaxIdleConns, 10)
}

func GetDBMaxLifetimeSecond() int {
	return getInt(dbMaxLifetimeSecond, defaultDBMaxLifetime)
}

func GetDBMaxIdleTimeSecond() int {
	return getInt(dbMaxIdleTimeSecond, defaultDBMaxIdleLifetime)
}

func GetDBConnectTimeoutSecond() int {
	return getInt(dbConnectTimeoutSecond, defaultDBConnectTimeout)
}

func GetDBRequestTimeoutSecond() int {
	return getInt(dbRequestTimeoutSecond, defaultDBRequestTimeout)
}

func GetS3Region() string {
	return getString(s3Region, "")
}

func GetS3Endpoint() string {
	return getString(s3Endpoint, "")
}

func GetS3Bucket() string {
	return getString(s3Bucket, "")
}

func GetS3ObjectPrefix() string {
	return getString(s3ObjectPrefix, "outputs")
}

func IsSweeperEnable() bool {
	return getBool(sweeperEnable, true)
}

func GetSweeperIntervalSecond() int {
	return getInt(sweeperIntervalSecond, 60)
}

func GetSweeperGraceSecond() int {
	return getInt(sweeperGraceSecond, 300)
}

func GetCapacityPollIntervalMs() int {
	return getInt(capacityPollInterval, 5000)
}

func GetCapacityApiEndpoint() string {
	return getString(capacityApiEndpoint, "")
}

func GetCapacityRegion() string {
	return getString(capacityRegion, "")
}

func GetCapacityVpcId() string {
	return getString(capacityVpcId, "")
}

// CapacityJobTypesKey is consumed by the capacity package, which unmarshals
// the per-job-type scaling blocks itself.
func CapacityJobTypesKey() string {
	return capacityJobTypes
}
