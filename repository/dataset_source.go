package repository

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// DatasetSource CSV 数据来源，每次 Open 读取一次完整内容
type DatasetSource interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	Describe() string
}

// S3ObjectGetter s3.Client 中用到的方法，测试时可替换
type S3ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// SourceOptions 构建数据源时的可选依赖
type SourceOptions struct {
	HTTPClient *http.Client
	S3Client   S3ObjectGetter
	AWSRegion  string
}

// filePath file:// 地址转本地路径。file://data/deals.csv 中 data 被解析为 Host，需拼回相对路径
func filePath(u *url.URL) string {
	if u.Opaque != "" {
		return u.Opaque
	}
	if u.Host == "" || strings.EqualFold(u.Host, "localhost") {
		return u.Path
	}
	return u.Host + u.Path
}

// NewDatasetSource 根据 URI 协议选择数据源：file://、http(s)://、s3://，无协议视为本地路径
func NewDatasetSource(ctx context.Context, uri string, opts SourceOptions) (DatasetSource, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return nil, fmt.Errorf("数据源地址为空")
	}

	u, err := url.Parse(uri)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// 无协议或 Windows 盘符
		return &FileSource{Path: uri}, nil
	}

	switch strings.ToLower(u.Scheme) {
	case "file":
		return &FileSource{Path: filePath(u)}, nil
	case "http", "https":
		client := opts.HTTPClient
		if client == nil {
			client = &http.Client{Timeout: 30 * time.Second}
		}
		return &HTTPSource{URL: uri, Client: client}, nil
	case "s3":
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return nil, fmt.Errorf("无效的S3地址: %s", uri)
		}
		client := opts.S3Client
		if client == nil {
			region := opts.AWSRegion
			if region == "" {
				region = "us-east-1"
			}
			awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
			if err != nil {
				return nil, fmt.Errorf("加载AWS配置失败: %w", err)
			}
			client = s3.NewFromConfig(awsCfg)
		}
		return &S3Source{Bucket: u.Host, Key: key, Client: client}, nil
	default:
		return nil, fmt.Errorf("不支持的数据源协议: %s", u.Scheme)
	}
}

// FileSource 本地文件
type FileSource struct {
	Path string
}

// Open 打开文件
func (s *FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("打开数据文件失败: %w", err)
	}
	return f, nil
}

// Describe 数据源描述
func (s *FileSource) Describe() string {
	return "file://" + s.Path
}

// HTTPSource 通过 HTTP GET 拉取
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// Open 发起请求，非 2xx 视为失败
func (s *HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求数据源失败: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("数据源返回状态码 %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// Describe 数据源描述
func (s *HTTPSource) Describe() string {
	return s.URL
}

// S3Source S3 对象
type S3Source struct {
	Bucket string
	Key    string
	Client S3ObjectGetter
}

// Open 下载对象
func (s *S3Source) Open(ctx context.Context) (io.ReadCloser, error) {
	result, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("从S3下载失败: %w", err)
	}
	return result.Body, nil
}

// Describe 数据源描述
func (s *S3Source) Describe() string {
	return "s3://" + s.Bucket + "/" + s.Key
}

// ReaderSource 包装已有内容，用于上传的文件
type ReaderSource struct {
	Name string
	Data []byte
}

// Open 返回内容读取器
func (s *ReaderSource) Open(ctx context.Context) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(string(s.Data))), nil
}

// Describe 数据源描述
func (s *ReaderSource) Describe() string {
	return "upload://" + s.Name
}
