package service

import (
	"context"

	"bench_survey_backend/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore mirrors archive snapshots to a MinIO bucket.
type MinioStore struct {
	Config *config.StorageConfig
	Client *minio.Client
}

func NewMinioStore(cfg *config.StorageConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStore{Config: cfg, Client: client}, nil
}

func (s *MinioStore) Upload(ctx context.Context, objectName, localPath, contentType string) error {
	_, err := s.Client.FPutObject(ctx, s.Config.MinioBucket, objectName, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}
