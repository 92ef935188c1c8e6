package core

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/askdb-ai/askdb/pkg/object-storage/s3"
)

// FileStorage abstracts where uploaded CSV files live.
type FileStorage interface {
	GetStaticDomain() string
	SaveFile(fullPath string, content []byte) error
	DeleteFile(fullFilePath string) error
	DownloadFile(ctx context.Context, filePath string) (*s3.GetObjectResult, error)
}

func SetupObjectStorage(cfg ObjectStorageDriver) FileStorage {
	var s FileStorage
	switch strings.ToLower(cfg.Driver) {
	case "s3":
		s3Cfg := cfg.S3
		s = &S3FileStorage{
			StaticDomain: cfg.StaticDomain,
			S3:           s3.NewS3Client(s3Cfg.Endpoint, s3Cfg.Region, s3Cfg.Bucket, s3Cfg.AccessKey, s3Cfg.SecretKey, s3.WithPathStyle(s3Cfg.UsePathStyle)),
		}
	case "local":
		s = &LocalFileStorage{
			StaticDomain: cfg.StaticDomain,
			BasePath:     cfg.LocalPath,
		}
	default:
		s = &NoneFileStorage{}
	}

	return s
}

type NoneFileStorage struct {
}

func (nfs *NoneFileStorage) GetStaticDomain() string {
	return ""
}

func (nfs *NoneFileStorage) SaveFile(fullPath string, content []byte) error {
	return fmt.Errorf("Unsupported")
}

func (nfs *NoneFileStorage) DeleteFile(fullFilePath string) error {
	return fmt.Errorf("Unsupported")
}

func (nfs *NoneFileStorage) DownloadFile(ctx context.Context, filePath string) (*s3.GetObjectResult, error) {
	return nil, fmt.Errorf("Unsupported")
}

type LocalFileStorage struct {
	StaticDomain string
	BasePath     string
}

func (lfs *LocalFileStorage) GetStaticDomain() string {
	return lfs.StaticDomain
}

func (lfs *LocalFileStorage) fullPath(p string) string {
	if lfs.BasePath == "" {
		return p
	}
	return filepath.Join(lfs.BasePath, p)
}

func (lfs *LocalFileStorage) SaveFile(fullPath string, content []byte) error {
	fullPath = lfs.fullPath(fullPath)

	dir := filepath.Dir(fullPath)
	_, err := os.Stat(dir)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %v", err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to check directory: %v", err)
	}

	if err = os.WriteFile(fullPath, content, 0644); err != nil {
		return fmt.Errorf("failed to save file: %v", err)
	}

	return nil
}

func (lfs *LocalFileStorage) DownloadFile(ctx context.Context, filePath string) (*s3.GetObjectResult, error) {
	filePath = lfs.fullPath(filePath)

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("Error opening file: %v", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("Error reading file: %v", err)
	}

	probe := raw
	if len(probe) > 512 {
		probe = probe[:512]
	}
	mimeType := http.DetectContentType(probe)

	return &s3.GetObjectResult{
		File:     raw,
		FileType: mimeType,
	}, nil
}

func (lfs *LocalFileStorage) DeleteFile(fullFilePath string) error {
	if err := os.Remove(lfs.fullPath(fullFilePath)); err != nil {
		return fmt.Errorf("failed to delete file: %v", err)
	}
	return nil
}

type S3FileStorage struct {
	StaticDomain string
	*s3.S3
}

func (fs *S3FileStorage) GetStaticDomain() string {
	return fs.StaticDomain
}

func (fs *S3FileStorage) SaveFile(fullPath string, content []byte) error {
	return fs.Upload(fullPath, bytes.NewReader(content))
}

func (fs *S3FileStorage) DownloadFile(ctx context.Context, filePath string) (*s3.GetObjectResult, error) {
	return fs.GetObject(ctx, filePath)
}

func (fs *S3FileStorage) DeleteFile(fullFilePath string) error {
	return fs.Delete(fullFilePath)
}
