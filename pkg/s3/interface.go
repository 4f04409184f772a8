/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package s3

import (
	"context"
	"time"
)

type Interface interface {
	GeneratePresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	PresignPrefix(ctx context.Context, prefix string, expiry time.Duration, maxEntries int) (map[string]string, error)
}
