/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package authority

import (
	"strings"

	"github.com/gin-gonic/gin"

	apiutils "github.com/conveyorworks/conveyor/pkg/apiserver/utils"
	"github.com/conveyorworks/conveyor/pkg/common"
	commonerrors "github.com/conveyorworks/conveyor/pkg/errors"
)

// Authorize validates the bearer access token and stashes the caller's
// identity in the gin context.
func Authorize(_ ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeader)
		if !strings.HasPrefix(header, common.BearerPrefix) {
			apiutils.AbortWithApiError(c, commonerrors.NewUnauthorized("missing bearer token"))
			return
		}
		claims, err := ParseAccessToken(strings.TrimPrefix(header, common.BearerPrefix))
		if err != nil {
			apiutils.AbortWithApiError(c, err)
			return
		}
		c.Set(common.UserId, claims.UserId)
		c.Set(common.UserType, claims.UserType)
	}
}

// CallerId returns the authenticated user id from the gin context.
func CallerId(c *gin.Context) string {
	return c.GetString(common.UserId)
}

// IsAdminScope reports whether the caller may act across all owners.
// Both admins and fleet workers need cross-owner visibility; regular
// users are scoped to their own jobs.
func IsAdminScope(c *gin.Context) bool {
	userType := c.GetString(common.UserType)
	return userType == common.UserTypeAdmin || userType == common.UserTypeWorker
}
