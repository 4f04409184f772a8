/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package jobservice

import (
	"encoding/json"

	dbclient "github.com/conveyorworks/conveyor/pkg/database/client"
)

// CreateResult reports the outcome of a job submission.
type CreateResult struct {
	JobId     string `json:"jobId"`
	RequestId string `json:"requestId"`
	Cached    bool   `json:"cached"`
}

// AssignmentDetail pairs an assignment with the result it produced, if any.
type AssignmentDetail struct {
	Assignment *dbclient.JobAssignment `json:"assignment"`
	Result     *dbclient.JobResult     `json:"result,omitempty"`
}

// JobDetail is the full view of a job with its assignment history.
type JobDetail struct {
	Job         *dbclient.Job       `json:"job"`
	Assignments []*AssignmentDetail `json:"assignments"`
}

// DownloadResult carries presigned URLs for a finished job's output files,
// keyed by path relative to the assignment's storage prefix.
type DownloadResult struct {
	Job   *dbclient.Job     `json:"job"`
	Files map[string]string `json:"files"`
}

// SubmitInput is a worker's final report for one assignment.
type SubmitInput struct {
	AssignmentId  string
	Status        string
	ResultPayload json.RawMessage
	Metadata      json.RawMessage
}
