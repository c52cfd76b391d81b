package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"themestore/pkg/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

// Adapter 实现了 storage.SingleStore 接口
// S3 没有 multi-get，批量读由 storage.FanOut 展开成并发的 GetObject
type Adapter struct {
	client *s3.Client
	bucket string
	logger *zap.Logger
}

var _ storage.SingleStore = (*Adapter)(nil)

// Config 用于初始化 Adapter
type Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

// NewAdapter 初始化 S3 客户端 (AWS SDK v2)
func NewAdapter(ctx context.Context, cfg Config, logger *zap.Logger) (*Adapter, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	// 1. 加载基础配置 (仅包含 Region 和 Credentials)
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretAccessKey, "",
		)))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	// 2. 创建 S3 客户端时注入 Endpoint (MinIO / R2 等兼容实现)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		// MinIO 必须强制使用 Path Style
		o.UsePathStyle = true
	})

	// 3. 确保 Bucket 存在
	_, err = client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: &cfg.Bucket})
	if err != nil {
		_, err = client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: &cfg.Bucket})
		if err != nil {
			// 并发创建或权限问题，先继续，真正的读写会暴露问题
			logger.Warn("failed to ensure bucket exists",
				zap.String("bucket", cfg.Bucket), zap.Error(err))
		}
	}

	return &Adapter{
		client: client,
		bucket: cfg.Bucket,
		logger: logger,
	}, nil
}

// transformKey 将存储 Key 转换为 S3 Object Key (Sharding)
// Logic: "file_data:aabbcc..." -> "file_data/aa/bbcc..."
func transformKey(key string) string {
	ns, name := "", key
	if i := strings.IndexByte(key, ':'); i >= 0 {
		ns, name = key[:i]+"/", key[i+1:]
	}
	if len(name) < 3 {
		return ns + name
	}
	return ns + name[:2] + "/" + name[2:]
}

// splitMetadata 把 content_type 映射到 Content-Type，其余进 S3 user metadata
func splitMetadata(meta storage.Metadata) (*string, map[string]string) {
	var contentType *string
	user := make(map[string]string)
	for k, v := range meta {
		if k == storage.MetaContentType {
			if s, ok := v.(string); ok && s != "" {
				contentType = aws.String(s)
			}
			continue
		}
		user[k] = fmt.Sprint(v)
	}
	return contentType, user
}

// Put 上传对象 (无条件覆盖，去重由上层的存在性检查负责)
func (s *Adapter) Put(ctx context.Context, key string, value []byte, meta storage.Metadata) error {
	contentType, user := splitMetadata(meta)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(transformKey(key)),
		Body:          bytes.NewReader(value),
		ContentLength: aws.Int64(int64(len(value))),
		ContentType:   contentType,
		Metadata:      user,
	})
	if err != nil {
		return fmt.Errorf("s3 put failed: %w", err)
	}
	return nil
}

// GetOne 下载单个对象
func (s *Adapter) GetOne(ctx context.Context, key string) ([]byte, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(transformKey(key)),
	})
	if err != nil {
		// 将 AWS 的 NoSuchKey 错误映射为我们自己的 ErrNotFound
		var noKey *s3types.NoSuchKey
		var notFound *s3types.NotFound
		if errors.As(err, &noKey) || errors.As(err, &notFound) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("s3 get failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read body failed: %w", err)
	}
	return data, nil
}
