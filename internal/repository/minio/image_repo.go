package minio

import (
	"context"
	"net/url"

	"github.com/dropx-tech/marketplace-backend/internal/cfg"
	"github.com/dropx-tech/marketplace-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

// ImageRepo выдаёт временные ссылки на изображения, хранящиеся в MinIO.
// Сами объекты загружает админский пайплайн, этот сервис их только читает.
type ImageRepo struct {
	mc  *minio.Client
	cfg *cfg.MinIOCfg
}

func NewImageRepo(mc *minio.Client, cfg *cfg.MinIOCfg) *ImageRepo {
	return &ImageRepo{
		mc:  mc,
		cfg: cfg,
	}
}

// PresignURL возвращает presigned GET-ссылку на объект.
// Подпись вычисляется локально, обращения к серверу не происходит.
func (i *ImageRepo) PresignURL(ctx context.Context, objectKey string) (string, error) {
	presigned, err := i.mc.PresignedGetObject(ctx, i.cfg.BucketName, objectKey, i.cfg.PresignTTL, url.Values{})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return presigned.String(), nil
}
