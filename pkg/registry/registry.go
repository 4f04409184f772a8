/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	commonerrors "github.com/conveyorworks/conveyor/pkg/errors"
	"github.com/conveyorworks/conveyor/pkg/fingerprint"
)

type JobType string

const (
	JobTypeTest             JobType = "TEST"
	JobTypeCriteriaPolygons JobType = "CRITERIA_POLYGONS"
)

const DefaultAssignmentTimeout = 60 * time.Minute

// spec describes one job class: the mandatory input schema, the optional
// result schema and the assignment lease duration.
type spec struct {
	input   *jsonschema.Schema
	result  *jsonschema.Schema
	timeout time.Duration
}

var jobTypes = map[JobType]*spec{}

func init() {
	register(JobTypeTest, testInputSchema, "", DefaultAssignmentTimeout)
	register(JobTypeCriteriaPolygons, criteriaPolygonsInputSchema, criteriaPolygonsResultSchema, 120*time.Minute)
}

// register compiles the schemas for a job class. The registry is assembled at
// init time and never mutated afterwards, so lookups need no locking.
func register(class JobType, inputSchema, resultSchema string, timeout time.Duration) {
	s := &spec{timeout: timeout}
	s.input = jsonschema.MustCompileString(string(class)+"/input.json", inputSchema)
	if resultSchema != "" {
		s.result = jsonschema.MustCompileString(string(class)+"/result.json", resultSchema)
	}
	jobTypes[class] = s
}

// IsKnown reports whether the job class is registered.
func IsKnown(class JobType) bool {
	_, ok := jobTypes[class]
	return ok
}

// Types lists all registered job classes.
func Types() []JobType {
	result := make([]JobType, 0, len(jobTypes))
	for class := range jobTypes {
		result = append(result, class)
	}
	return result
}

// ValidateInput validates a submitted payload against the class input schema
// and returns the canonical serialization of the payload.
func ValidateInput(class JobType, payload json.RawMessage) (json.RawMessage, error) {
	s, ok := jobTypes[class]
	if !ok {
		return nil, commonerrors.NewBadRequest(fmt.Sprintf("unknown job type %s", class))
	}
	v, err := decode(payload)
	if err != nil {
		return nil, commonerrors.NewBadRequest(fmt.Sprintf("invalid input payload: %v", err))
	}
	if err = s.input.Validate(v); err != nil {
		return nil, commonerrors.NewBadRequest(fmt.Sprintf("input payload rejected: %v", err))
	}
	normalized, err := fingerprint.NormalizeRaw(payload)
	if err != nil {
		return nil, commonerrors.NewBadRequest(fmt.Sprintf("invalid input payload: %v", err))
	}
	return normalized, nil
}

// ValidateResult validates a worker-submitted result payload. A class
// without a result schema accepts any payload.
func ValidateResult(class JobType, payload json.RawMessage) error {
	s, ok := jobTypes[class]
	if !ok {
		return commonerrors.NewBadRequest(fmt.Sprintf("unknown job type %s", class))
	}
	if s.result == nil || len(payload) == 0 {
		return nil
	}
	v, err := decode(payload)
	if err != nil {
		return commonerrors.NewBadRequest(fmt.Sprintf("invalid result payload: %v", err))
	}
	if err = s.result.Validate(v); err != nil {
		return commonerrors.NewBadRequest(fmt.Sprintf("result payload rejected: %v", err))
	}
	return nil
}

// Timeout returns the assignment lease duration for the class.
func Timeout(class JobType) time.Duration {
	if s, ok := jobTypes[class]; ok {
		return s.timeout
	}
	return DefaultAssignmentTimeout
}

func decode(payload json.RawMessage) (interface{}, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("the payload is empty")
	}
	var v interface{}
	d := json.NewDecoder(bytes.NewReader(payload))
	d.UseNumber()
	if err := d.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
