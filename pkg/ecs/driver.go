/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package ecs

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	awsecs "github.com/aws/aws-sdk-go-v2/service/ecs"
	ecstypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"
	"k8s.io/klog/v2"

	commonerrors "github.com/conveyorworks/conveyor/pkg/errors"
)

type Driver struct {
	ecsClient *awsecs.Client
	ec2Client *ec2.Client
	vpcId     string
}

// NewDriver builds a Fargate driver from the default credential chain.
// Subnet discovery is scoped to the given VPC.
func NewDriver(ctx context.Context, region, vpcId string) (*Driver, error) {
	if region == "" || vpcId == "" {
		return nil, commonerrors.NewBadRequest("region and vpc id are required")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %v", err)
	}
	return &Driver{
		ecsClient: awsecs.NewFromConfig(cfg),
		ec2Client: ec2.NewFromConfig(cfg),
		vpcId:     vpcId,
	}, nil
}

func (d *Driver) RunTask(ctx context.Context, spec LaunchSpec) (string, error) {
	subnet, err := d.pickPublicSubnet(ctx)
	if err != nil {
		return "", err
	}
	output, err := d.ecsClient.RunTask(ctx, &awsecs.RunTaskInput{
		TaskDefinition: aws.String(spec.TaskDefinitionArn),
		Cluster:        aws.String(spec.ClusterArn),
		Count:          aws.Int32(1),
		LaunchType:     ecstypes.LaunchTypeFargate,
		NetworkConfiguration: &ecstypes.NetworkConfiguration{
			AwsvpcConfiguration: &ecstypes.AwsVpcConfiguration{
				Subnets:        []string{subnet},
				SecurityGroups: []string{spec.SecurityGroup},
				AssignPublicIp: ecstypes.AssignPublicIpEnabled,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to run task %s: %v", spec.TaskDefinitionArn, err)
	}
	if len(output.Failures) > 0 {
		failure := output.Failures[0]
		return "", fmt.Errorf("run task %s rejected: %s (%s)", spec.TaskDefinitionArn,
			aws.ToString(failure.Reason), aws.ToString(failure.Detail))
	}
	if len(output.Tasks) == 0 || output.Tasks[0].TaskArn == nil {
		return "", fmt.Errorf("run task %s returned no task", spec.TaskDefinitionArn)
	}
	return *output.Tasks[0].TaskArn, nil
}

func (d *Driver) DescribeTasks(ctx context.Context, clusterArn string, taskArns []string) ([]TaskState, error) {
	if len(taskArns) == 0 {
		return nil, nil
	}
	output, err := d.ecsClient.DescribeTasks(ctx, &awsecs.DescribeTasksInput{
		Cluster: aws.String(clusterArn),
		Tasks:   taskArns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe tasks in %s: %v", clusterArn, err)
	}
	states := make([]TaskState, 0, len(taskArns))
	for _, task := range output.Tasks {
		states = append(states, TaskState{
			TaskArn:   aws.ToString(task.TaskArn),
			RawStatus: aws.ToString(task.LastStatus),
		})
	}
	// ECS reports tasks it has already forgotten through Failures with
	// reason MISSING rather than an error.
	for _, failure := range output.Failures {
		states = append(states, TaskState{
			TaskArn: aws.ToString(failure.Arn),
			Missing: true,
		})
	}
	return states, nil
}

// pickPublicSubnet selects a random public subnet of the driver's VPC so
// consecutive launches spread across availability zones.
func (d *Driver) pickPublicSubnet(ctx context.Context) (string, error) {
	output, err := d.ec2Client.DescribeSubnets(ctx, &ec2.DescribeSubnetsInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("vpc-id"), Values: []string{d.vpcId}},
			{Name: aws.String("map-public-ip-on-launch"), Values: []string{"true"}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to describe subnets of %s: %v", d.vpcId, err)
	}
	if len(output.Subnets) == 0 {
		return "", fmt.Errorf("no public subnet found in vpc %s", d.vpcId)
	}
	subnet := output.Subnets[rand.Intn(len(output.Subnets))]
	klog.V(4).Infof("picked subnet %s in %s", aws.ToString(subnet.SubnetId), aws.ToString(subnet.AvailabilityZone))
	return aws.ToString(subnet.SubnetId), nil
}
