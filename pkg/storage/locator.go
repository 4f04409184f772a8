/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	commonconfig "github.com/conveyorworks/conveyor/pkg/config"
	commonerrors "github.com/conveyorworks/conveyor/pkg/errors"
	"github.com/conveyorworks/conveyor/pkg/registry"
	"github.com/conveyorworks/conveyor/pkg/s3"
	"github.com/conveyorworks/conveyor/pkg/utils/timeutil"
)

const (
	SchemeS3 = "S3"

	// MaxDownloadEntries caps the number of output files a single download
	// request may presign.
	MaxDownloadEntries = 10

	DefaultExpiry = 3600 * time.Second
)

// Locator derives per-attempt storage locations and issues time-limited
// download URLs for them. It is read-only with respect to the blob store and
// safe for concurrent use.
type Locator struct {
	bucket string
	prefix string
	client s3.Interface
}

func NewLocator(client s3.Interface) *Locator {
	return &Locator{
		bucket: commonconfig.GetS3Bucket(),
		prefix: commonconfig.GetS3ObjectPrefix(),
		client: client,
	}
}

// StorageFor returns the scheme and URI reserved for one assignment attempt.
// The millisecond timestamp guarantees a fresh prefix per attempt.
func (l *Locator) StorageFor(class registry.JobType, jobId string) (string, string) {
	uri := fmt.Sprintf("s3://%s/%s/%s/%s/%d",
		l.bucket, l.prefix, strings.ToLower(string(class)), jobId, timeutil.UnixMillis(time.Now()))
	return SchemeS3, uri
}

// PresignList lists all objects under the URI's prefix and returns a mapping
// of relative path to a presigned GET URL valid for expiry. Listings over
// MaxDownloadEntries fail with BadRequest.
func (l *Locator) PresignList(ctx context.Context, uri string, expiry time.Duration) (map[string]string, error) {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	bucket, key, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	if bucket != l.bucket {
		return nil, commonerrors.NewBadRequest(fmt.Sprintf("the uri bucket %s is not served by this deployment", bucket))
	}
	urls, err := l.client.PresignPrefix(ctx, key, expiry, MaxDownloadEntries)
	if err != nil {
		if errors.Is(err, s3.ErrTooManyObjects) {
			return nil, commonerrors.NewBadRequest(err.Error())
		}
		return nil, commonerrors.NewInternalError(err.Error())
	}
	return urls, nil
}

// ParseURI splits an s3://bucket/key URI into its bucket and key.
func ParseURI(uri string) (string, string, error) {
	rest, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		return "", "", commonerrors.NewBadRequest(fmt.Sprintf("invalid storage uri %s", uri))
	}
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", commonerrors.NewBadRequest(fmt.Sprintf("invalid storage uri %s", uri))
	}
	return parts[0], parts[1], nil
}
