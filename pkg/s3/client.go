/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package s3

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const DefaultTimeout = 180

// ErrTooManyObjects is returned by PresignPrefix when the listing exceeds
// the caller's entry cap.
var ErrTooManyObjects = fmt.Errorf("too many objects under prefix")

type Client struct {
	*Config
	s3Client *s3.Client
}

// NewClient creates and returns a new Client instance using system-wide S3
// settings.
func NewClient(ctx context.Context) (Interface, error) {
	config, err := NewConfig(ctx)
	if err != nil {
		return nil, err
	}
	return NewClientFromConfig(ctx, config)
}

func NewClientFromConfig(ctx context.Context, config *Config) (Interface, error) {
	s3Client := s3.NewFromConfig(config.Config, func(o *s3.Options) {
		o.UsePathStyle = true
	})
	cli := &Client{
		Config:   config,
		s3Client: s3Client,
	}
	if err := cli.checkBucketExisted(ctx); err != nil {
		return nil, err
	}
	return cli, nil
}

// checkBucketExisted checks BucketExisted and returns the result.
func (c *Client) checkBucketExisted(ctx context.Context) error {
	input := &s3.HeadBucketInput{
		Bucket: c.Bucket,
	}
	timeoutCtx, cancel := WithOptionalTimeout(ctx, DefaultTimeout)
	defer cancel()

	if _, err := c.s3Client.HeadBucket(timeoutCtx, input); err != nil {
		return err
	}
	return nil
}

// GeneratePresignedURL generate presigned URL for temporary object access.
func (c *Client) GeneratePresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	presigner := s3.NewPresignClient(c.s3Client)

	resp, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: c.Bucket,
		Key:    aws.String(key),
	}, func(o *s3.PresignOptions) {
		o.Expires = expiry
	})
	if err != nil {
		return "", err
	}
	return resp.URL, nil
}

// PresignPrefix generates presigned URLs for all objects under the given S3
// prefix. Returns a map of relative file path to presigned URL. A positive
// maxEntries caps the listing; exceeding it fails with ErrTooManyObjects.
func (c *Client) PresignPrefix(ctx context.Context, prefix string, expiry time.Duration, maxEntries int) (map[string]string, error) {
	if c == nil {
		return nil, fmt.Errorf("please init client first")
	}
	result, err := c.s3Client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: c.Bucket,
		Prefix: aws.String(prefix),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}
	if len(result.Contents) == 0 {
		return nil, fmt.Errorf("no objects found with prefix: %s", prefix)
	}
	if maxEntries > 0 && len(result.Contents) > maxEntries {
		return nil, fmt.Errorf("%w: %d objects under %s, limit %d",
			ErrTooManyObjects, len(result.Contents), prefix, maxEntries)
	}

	presigner := s3.NewPresignClient(c.s3Client)
	urls := make(map[string]string)
	for _, obj := range result.Contents {
		key := *obj.Key
		if strings.HasSuffix(key, "/") {
			continue // skip directory markers
		}
		resp, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
			Bucket: c.Bucket,
			Key:    aws.String(key),
		}, func(o *s3.PresignOptions) {
			o.Expires = expiry
		})
		if err != nil {
			return nil, fmt.Errorf("failed to presign %s: %w", key, err)
		}
		relativePath := strings.TrimPrefix(key, prefix)
		relativePath = strings.TrimPrefix(relativePath, "/")
		urls[relativePath] = resp.URL
	}
	return urls, nil
}

// WithOptionalTimeout add optional timeout to context.
func WithOptionalTimeout(parent context.Context, timeout int64) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return parent, func() {}
	}
	return context.WithTimeout(parent, time.Duration(timeout)*time.Second)
}
