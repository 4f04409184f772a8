/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package client

import (
	"fmt"
	"reflect"
	"strings"

	"database/sql"

	"github.com/lib/pq"
)

const (
	DESC = "desc"
	ASC  = "asc"

	CreatedAt = "created_at"
)

// Job status values. PENDING and IN_PROGRESS are live; the rest are terminal.
const (
	JobStatusPending    = "PENDING"
	JobStatusInProgress = "IN_PROGRESS"
	JobStatusSucceeded  = "SUCCEEDED"
	JobStatusFailed     = "FAILED"
	JobStatusCancelled  = "CANCELLED"
	JobStatusTimedOut   = "TIMED_OUT"
)

// IsTerminalStatus reports whether a job status admits no further transitions.
func IsTerminalStatus(status string) bool {
	switch status {
	case JobStatusSucceeded, JobStatusFailed, JobStatusCancelled, JobStatusTimedOut:
		return true
	}
	return false
}

type Job struct {
	Id           string      `db:"id"`
	CreatedAt    pq.NullTime `db:"created_at"`
	UpdatedAt    pq.NullTime `db:"updated_at"`
	Type         string      `db:"type"`
	Status       string      `db:"status"`
	UserId       string      `db:"user_id"`
	InputPayload []byte      `db:"input_payload"`
	Hash         string      `db:"hash"`
}

// GetJobFieldTags returns the JobFieldTags value.
func GetJobFieldTags() map[string]string {
	j := Job{}
	return getFieldTags(j)
}

type JobAssignment struct {
	Id            string         `db:"id"`
	CreatedAt     pq.NullTime    `db:"created_at"`
	UpdatedAt     pq.NullTime    `db:"updated_at"`
	JobId         string         `db:"job_id"`
	EcsTaskArn    string         `db:"ecs_task_arn"`
	EcsClusterArn string         `db:"ecs_cluster_arn"`
	ExpiresAt     pq.NullTime    `db:"expires_at"`
	StorageScheme sql.NullString `db:"storage_scheme"`
	StorageUri    sql.NullString `db:"storage_uri"`
	HeartbeatAt   pq.NullTime    `db:"heartbeat_at"`
	CompletedAt   pq.NullTime    `db:"completed_at"`
}

// GetJobAssignmentFieldTags returns the JobAssignmentFieldTags value.
func GetJobAssignmentFieldTags() map[string]string {
	a := JobAssignment{}
	return getFieldTags(a)
}

type JobResult struct {
	Id            string         `db:"id"`
	CreatedAt     pq.NullTime    `db:"created_at"`
	JobId         string         `db:"job_id"`
	AssignmentId  string         `db:"assignment_id"`
	ResultPayload []byte         `db:"result_payload"`
	StorageScheme sql.NullString `db:"storage_scheme"`
	StorageUri    sql.NullString `db:"storage_uri"`
	Metadata      []byte         `db:"metadata"`
}

// GetJobResultFieldTags returns the JobResultFieldTags value.
func GetJobResultFieldTags() map[string]string {
	r := JobResult{}
	return getFieldTags(r)
}

type JobRequest struct {
	Id           string      `db:"id"`
	CreatedAt    pq.NullTime `db:"created_at"`
	UserId       string      `db:"user_id"`
	Type         string      `db:"type"`
	InputPayload []byte      `db:"input_payload"`
	CacheHit     bool        `db:"cache_hit"`
	JobId        string      `db:"job_id"`
}

// GetJobRequestFieldTags returns the JobRequestFieldTags value.
func GetJobRequestFieldTags() map[string]string {
	r := JobRequest{}
	return getFieldTags(r)
}

// getFieldTags retrieves FieldTags for internal use.
func getFieldTags(obj interface{}) map[string]string {
	result := make(map[string]string)
	t := reflect.TypeOf(obj)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		result[strings.ToLower(field.Name)] = field.Tag.Get("db")
	}
	return result
}

// generateCommand generates SQL command string using reflection
// Iterates through struct fields and builds column and value lists
// Skips fields with specified ignoreTag
// Returns formatted SQL command with columns and values
func generateCommand(obj interface{}, format, ignoreTag string) string {
	t := reflect.TypeOf(obj)
	columns := make([]string, 0, t.NumField())
	values := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("db")
		if tag == ignoreTag {
			continue
		}
		columns = append(columns, tag)
		values = append(values, fmt.Sprintf(":%s", tag))
	}
	cmd := fmt.Sprintf(format, strings.Join(columns, ", "), strings.Join(values, ", "))
	return cmd
}

// GetFieldTag returns the FieldTag value.
func GetFieldTag(tags map[string]string, name string) string {
	name = strings.ToLower(name)
	return tags[name]
}
