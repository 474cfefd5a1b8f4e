package usecase

import "context"

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

type TokenManager interface {
	Issue(email string) (string, error)
	// ParseSubject возвращает e-mail из subject-клейма.
	// Любой сбой проверки (подпись, срок, формат) — одна ошибка e.ErrUnauthorized.
	ParseSubject(token string) (string, error)
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}

type ImageInfra interface {
	UploadProductImage(ctx context.Context, req *AttachImageReq) (string, error)
	CleanupImage(key string)
}
