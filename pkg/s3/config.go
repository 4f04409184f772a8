/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package s3

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	commonconfig "github.com/conveyorworks/conveyor/pkg/config"
)

type Config struct {
	aws.Config
	Bucket *string
}

// NewConfig creates a new S3 configuration object using system-wide S3
// settings. Credentials come from the default AWS provider chain; a
// non-empty endpoint (e.g. minio in development) overrides the resolver.
func NewConfig(ctx context.Context) (*Config, error) {
	bucket := commonconfig.GetS3Bucket()
	if bucket == "" {
		return nil, fmt.Errorf("the s3 bucket is empty")
	}
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(commonconfig.GetS3Region()),
	}
	if endpoint := commonconfig.GetS3Endpoint(); endpoint != "" {
		opts = append(opts, awsconfig.WithEndpointResolverWithOptions(
			aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				return aws.Endpoint{URL: endpoint}, nil
			}),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Config{
		Config: cfg,
		Bucket: aws.String(bucket),
	}, nil
}
