package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"service-booking/internal/data/entity"
	"service-booking/internal/data/repository"
	"service-booking/internal/dto/request"
	"service-booking/internal/dto/response"
	"service-booking/pkg/apperr"
	"service-booking/pkg/mailer"
	"service-booking/pkg/utils"
)

type NotificationService interface {
	// Notify menulis notifikasi in-app untuk satu user.
	Notify(ctx context.Context, userID uuid.UUID, title, body string) error
	// NotifyAdmins fan-out ke semua admin plus satu email ke inbox operasional.
	NotifyAdmins(ctx context.Context, title, body string) error

	GetUserNotifications(ctx context.Context, userID string, page *request.PaginatedRequest) (*response.PaginatedResponse[response.NotificationResponse], error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
}

type notificationService struct {
	repo   *repository.Repository
	mailer mailer.Mailer
	config *utils.Config
	log    *zap.Logger
}

func NewNotificationService(repo *repository.Repository, mail mailer.Mailer, config *utils.Config, log *zap.Logger) NotificationService {
	return &notificationService{
		repo:   repo,
		mailer: mail,
		config: config,
		log:    log.With(zap.String("service", "notification")),
	}
}

func (s *notificationService) Notify(ctx context.Context, userID uuid.UUID, title, body string) error {
	notification := &entity.Notification{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		UserID: userID,
		Title:  title,
		Body:   body,
	}

	if err := s.repo.Notification.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (s *notificationService) NotifyAdmins(ctx context.Context, title, body string) error {
	admins, err := s.repo.User.FindAdmins(ctx)
	if err != nil {
		return fmt.Errorf("failed to list admins: %w", err)
	}

	for _, admin := range admins {
		if err := s.Notify(ctx, admin.ID, title, body); err != nil {
			s.log.Warn("Failed to notify admin",
				zap.Error(err), zap.String("admin_id", admin.ID.String()))
		}
	}

	if s.config.Email.AdminTo != "" {
		if err := s.mailer.SendMail(s.config.Email.AdminTo, title, body); err != nil {
			s.log.Warn("Failed to email admin inbox", zap.Error(err))
		}
	}

	return nil
}

func (s *notificationService) GetUserNotifications(ctx context.Context, userID string, page *request.PaginatedRequest) (*response.PaginatedResponse[response.NotificationResponse], error) {
	userUUID, err := utils.ParseUUID(userID)
	if err != nil {
		return nil, apperr.Validationf("invalid user id")
	}

	notifications, err := s.repo.Notification.FindByUserID(ctx, userUUID, page.Limit(), page.Offset())
	if err != nil {
		s.log.Error("Failed to list notifications", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	total, err := s.repo.Notification.CountByUserID(ctx, userUUID)
	if err != nil {
		s.log.Error("Failed to count notifications", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}

	result := make([]response.NotificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		result = append(result, response.NotificationToResponse(notification))
	}

	return response.NewPaginatedResponse(result, page.Page, page.Limit(), total), nil
}

func (s *notificationService) CountUnread(ctx context.Context, userID string) (int64, error) {
	userUUID, err := utils.ParseUUID(userID)
	if err != nil {
		return 0, apperr.Validationf("invalid user id")
	}

	count, err := s.repo.Notification.CountUnread(ctx, userUUID)
	if err != nil {
		s.log.Error("Failed to count unread notifications", zap.Error(err), zap.String("user_id", userID))
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return count, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	userUUID, err := utils.ParseUUID(userID)
	if err != nil {
		return apperr.Validationf("invalid user id")
	}
	notificationUUID, err := utils.ParseUUID(notificationID)
	if err != nil {
		return apperr.Validationf("invalid notification id")
	}

	if err := s.repo.Notification.MarkRead(ctx, notificationUUID, userUUID); err != nil {
		s.log.Error("Failed to mark notification read",
			zap.Error(err), zap.String("notification_id", notificationID))
		return err
	}
	return nil
}
