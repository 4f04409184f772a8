/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package common

const (
	// UserId is the gin context key carrying the authenticated user.
	UserId = "userId"
	// UserType is the gin context key carrying the authenticated user's role.
	UserType = "userType"

	UserTypeAdmin  = "admin"
	UserTypeNormal = "user"
	UserTypeWorker = "worker"

	// JobId is the route parameter for job routes.
	JobId = "jobId"
	// AssignmentId is the route parameter for result submission.
	AssignmentId = "assignmentId"

	ConveyorRouterRootPath = "/api/"

	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "
)
