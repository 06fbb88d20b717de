// ObjectStore.go
package Goraster

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

const requestPayerHeader = "x-amz-request-payer"

// ObjectStoreOptions 对象存储选项，零值为默认行为
type ObjectStoreOptions struct {
	// RequesterPays 对启用 requester-pays 的 bucket 在读取请求上附加计费头
	RequesterPays bool
}

// ObjectStore S3 兼容对象存储的传输封装。
// 只做字节级搬运，失败原样包装为 SourceReadError 上抛，不重试不解释。
type ObjectStore struct {
	client        *minio.Client
	requesterPays bool
}

// NewObjectStore 用已初始化的 S3 客户端构造 ObjectStore
func NewObjectStore(client *minio.Client, opts ObjectStoreOptions) *ObjectStore {
	return &ObjectStore{client: client, requesterPays: opts.RequesterPays}
}

// ListFiles 列出指定位置下的全部对象，分页由客户端自动处理
func (s *ObjectStore) ListFiles(ctx context.Context, loc ObjectLocation) ([]ObjectLocation, error) {
	var files []ObjectLocation
	objects := s.client.ListObjects(ctx, loc.Bucket, s.listOptions(loc.Path))
	for obj := range objects {
		if obj.Err != nil {
			return nil, &SourceReadError{Source: loc.S3URI(), Err: obj.Err}
		}
		files = append(files, ObjectLocation{Bucket: loc.Bucket, Path: obj.Key})
	}
	return files, nil
}

// DownloadFile 将单个对象下载到本地目录，返回本地文件路径。
// 先写入临时文件再改名，避免留下半截文件。
func (s *ObjectStore) DownloadFile(ctx context.Context, loc ObjectLocation, localDir string) (string, error) {
	if err := os.MkdirAll(localDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create local directory: %w", err)
	}

	target := filepath.Join(localDir, loc.Basename())
	staging := filepath.Join(localDir, "."+uuid.NewString())

	if err := s.client.FGetObject(ctx, loc.Bucket, loc.Path, staging, s.getOptions()); err != nil {
		os.Remove(staging)
		return "", &SourceReadError{Source: loc.S3URI(), Err: err}
	}
	if err := os.Rename(staging, target); err != nil {
		os.Remove(staging)
		return "", fmt.Errorf("failed to finalize download: %w", err)
	}
	return target, nil
}

// UploadFile 将本地文件上传到指定位置
func (s *ObjectStore) UploadFile(ctx context.Context, loc ObjectLocation, localPath string) error {
	if _, err := s.client.FPutObject(ctx, loc.Bucket, loc.Path, localPath, minio.PutObjectOptions{}); err != nil {
		return &SourceReadError{Source: loc.S3URI(), Err: err}
	}
	return nil
}

// DownloadDirectory 下载目录下的全部对象，保留相对层级，返回本地文件路径列表
func (s *ObjectStore) DownloadDirectory(ctx context.Context, loc ObjectLocation, localDir string) ([]string, error) {
	files, err := s.ListFiles(ctx, loc)
	if err != nil {
		return nil, err
	}

	var local []string
	for _, file := range files {
		rel := strings.TrimPrefix(strings.TrimPrefix(file.Path, loc.Path), "/")
		targetDir := filepath.Join(localDir, filepath.Dir(rel))
		path, err := s.DownloadFile(ctx, file, targetDir)
		if err != nil {
			return nil, err
		}
		local = append(local, path)
	}
	log.Printf("downloaded %d objects from %s", len(local), loc.S3URI())
	return local, nil
}

// UploadDirectory 将本地目录下的全部文件上传到指定位置
func (s *ObjectStore) UploadDirectory(ctx context.Context, loc ObjectLocation, localDir string) error {
	count := 0
	err := filepath.WalkDir(localDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(localDir, path)
		if err != nil {
			return err
		}
		count++
		return s.UploadFile(ctx, loc.Extend(filepath.ToSlash(rel)), path)
	})
	if err != nil {
		return err
	}
	log.Printf("uploaded %d files to %s", count, loc.S3URI())
	return nil
}

// Exists 判断对象是否存在
func (s *ObjectStore) Exists(ctx context.Context, loc ObjectLocation) (bool, error) {
	_, err := s.client.StatObject(ctx, loc.Bucket, loc.Path, minio.StatObjectOptions(s.getOptions()))
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, &SourceReadError{Source: loc.S3URI(), Err: err}
	}
	return true, nil
}

// DeleteFile 删除单个对象
func (s *ObjectStore) DeleteFile(ctx context.Context, loc ObjectLocation) error {
	if err := s.client.RemoveObject(ctx, loc.Bucket, loc.Path, minio.RemoveObjectOptions{}); err != nil {
		return &SourceReadError{Source: loc.S3URI(), Err: err}
	}
	return nil
}

// getOptions 读取类请求的选项，requester-pays 时附加计费头
func (s *ObjectStore) getOptions() minio.GetObjectOptions {
	opts := minio.GetObjectOptions{}
	if s.requesterPays {
		opts.Set(requestPayerHeader, "requester")
	}
	return opts
}

// listOptions 列举请求的选项，requester-pays 同样要附加计费头，
// 否则对启用 requester-pays 的 bucket 列举会被拒绝
func (s *ObjectStore) listOptions(prefix string) minio.ListObjectsOptions {
	opts := minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}
	if s.requesterPays {
		opts.Set(requestPayerHeader, "requester")
	}
	return opts
}
