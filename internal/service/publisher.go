package service

import "github.com/shenikar/crisis_broadcasting_system/internal/models"

// Broadcaster публикует событие в комнаты хаба. Публикация не блокирует вызывающего.
type Broadcaster interface {
	Publish(event string, payload any, rooms ...string)
}

// VerificationQueue принимает задачи на проверку изображений без ожидания
type VerificationQueue interface {
	Enqueue(job models.VerificationJob) error
}
