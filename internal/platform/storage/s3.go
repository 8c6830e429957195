// Copyright (c) 2026 Healthy Tips. All rights reserved.
// Author: dimitar.nikolovv@gmail.com

/*
Package storage provides the object storage gateway for binary video payloads.

It is a thin capability boundary over any S3-compatible store (MinIO,
Cloudflare R2, AWS S3): Put, Delete, and time-limited signed GET URLs.

# Contract

  - Put and Delete are idempotent at the key level; re-issuing either is safe.
  - SignedGetURL grants read-only access to exactly one object for the given
    TTL, independent of the caller's own session.
  - Errors from the underlying store propagate unchanged. This package
    performs no retries and no interpretation.
*/
package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// DefaultSignedURLTTL is the validity window for signed GET URLs.
const DefaultSignedURLTTL = 1 * time.Hour

// Options holds the connection settings for an S3-compatible endpoint.
type Options struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// Client is the concrete S3-backed object storage gateway.
//
// It is constructed once at startup and shared; the underlying SDK client is
// safe for concurrent use.
type Client struct {
	s3      *s3.Client
	presign *s3.PresignClient
}

// NewClient builds an S3 client against a custom endpoint with static
// credentials and path-style addressing (required by MinIO and R2).
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to load aws config: %w", err)
	}

	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(opts.Endpoint)
		o.UsePathStyle = true
	})

	return &Client{
		s3:      s3Client,
		presign: s3.NewPresignClient(s3Client),
	}, nil
}

// Put uploads an object under (bucket, key) with the given content type and
// optional user metadata. Re-putting the same key overwrites in place.
func (client *Client) Put(ctx context.Context, bucket, key string, body []byte, contentType string, metadata map[string]string) error {
	_, err := client.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
		Metadata:      metadata,
	})
	if err != nil {
		return fmt.Errorf("storage: put %s/%s: %w", bucket, key, err)
	}
	return nil
}

// Delete removes the object under (bucket, key). Deleting a missing key is
// not an error on S3-compatible stores.
func (client *Client) Delete(ctx context.Context, bucket, key string) error {
	_, err := client.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("storage: delete %s/%s: %w", bucket, key, err)
	}
	return nil
}

// SignedGetURL returns a presigned read-only URL for one object, valid for
// exactly ttl. Pass [DefaultSignedURLTTL] unless the caller needs a shorter
// window.
func (client *Client) SignedGetURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	request, err := client.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("storage: presign %s/%s: %w", bucket, key, err)
	}

	return request.URL, nil
}
