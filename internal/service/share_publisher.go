package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ErrShareBucketMissing 表示未配置分享卡片的存储桶
var ErrShareBucketMissing = errors.New("share bucket is not configured")

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// SharePublisher 把渲染好的卡片上传到 S3，返回可分享的链接
type SharePublisher struct {
	client objectPutter
	bucket string
	region string
}

// NewSharePublisher 按默认凭证链创建 S3 客户端；bucket 为空时返回未启用的发布器
func NewSharePublisher(ctx context.Context, bucket, region string) (*SharePublisher, error) {
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return &SharePublisher{}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &SharePublisher{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		region: region,
	}, nil
}

// Enabled 表示是否配置了存储桶
func (p *SharePublisher) Enabled() bool {
	return p != nil && p.client != nil && p.bucket != ""
}

// Publish 上传 PNG，对象路径为 share-cards/<device>/<uuid>.png
func (p *SharePublisher) Publish(ctx context.Context, deviceID string, card []byte) (string, error) {
	if !p.Enabled() {
		return "", ErrShareBucketMissing
	}

	key := fmt.Sprintf("share-cards/%s/%s.png", deviceID, uuid.NewString())
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(card),
		ContentType: aws.String("image/png"),
	})
	if err != nil {
		return "", fmt.Errorf("upload share card: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", p.bucket, p.region, key), nil
}
