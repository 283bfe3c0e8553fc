// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config describes the bucket uploads go to.
type S3Config struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	// Endpoint points at an S3-compatible service such as MinIO. Empty
	// means AWS.
	Endpoint string
	// PublicURL is the base URL objects are served from. Empty means the
	// virtual-hosted AWS URL of the bucket.
	PublicURL string
	// UsePathStyle addresses the bucket in the path, as MinIO expects.
	UsePathStyle bool
}

// putObjectAPI is the part of *s3.Client the uploader uses.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader stores objects in an S3 bucket.
type S3Uploader struct {
	client    putObjectAPI
	bucket    string
	publicURL string
}

// NewS3Uploader builds an S3 client from static credentials.
func NewS3Uploader(ctx context.Context, cfg S3Config) (*S3Uploader, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return newS3Uploader(client, cfg), nil
}

func newS3Uploader(client putObjectAPI, cfg S3Config) *S3Uploader {
	publicURL := cfg.PublicURL
	switch {
	case publicURL != "":
	case cfg.Endpoint != "":
		publicURL = joinURL(cfg.Endpoint, cfg.Bucket)
	default:
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	return &S3Uploader{client: client, bucket: cfg.Bucket, publicURL: publicURL}
}

// Upload puts data at key with a year-long public cache lifetime. Keys are
// unique per upload, so objects never change.
func (u *S3Uploader) Upload(ctx context.Context, key string, data []byte, contentType string) (Object, error) {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return Object{}, fmt.Errorf("uploading %s to bucket %s: %w", key, u.bucket, err)
	}
	return Object{URL: joinURL(u.publicURL, key), Key: key}, nil
}
