package usecase

import "context"

// ImagesInfra выдаёт временные ссылки на объекты с изображениями.
type ImagesInfra interface {
	PresignURL(ctx context.Context, objectKey string) (string, error)
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}
