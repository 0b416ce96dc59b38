package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/encounterhub/listing-service/internal/listing/domain"
	"github.com/encounterhub/listing-service/internal/platform/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MessageUsecase implements the immutable message ledger between users about
// a listing.
type MessageUsecase struct {
	messages domain.MessageRepository
	listings domain.ListingRepository
	logger   *logger.Logger
}

func NewMessageUsecase(messages domain.MessageRepository, listings domain.ListingRepository, log *logger.Logger) *MessageUsecase {
	return &MessageUsecase{
		messages: messages,
		listings: listings,
		logger:   log.Named("MessageUsecase"),
	}
}

// Send records a message to another user about a listing. The listing must
// exist and be visible to the sender at send time; the message survives its
// later deletion.
func (uc *MessageUsecase) Send(ctx context.Context, actor *domain.User, toUserID, listingID, content string) (*domain.Message, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	if toUserID == "" {
		return nil, fmt.Errorf("%w: recipient is required", domain.ErrInvalidInput)
	}
	if toUserID == actor.ID {
		return nil, fmt.Errorf("%w: cannot message yourself", domain.ErrInvalidInput)
	}
	if content == "" {
		return nil, fmt.Errorf("%w: message content is required", domain.ErrInvalidInput)
	}
	listing, err := uc.listings.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !listing.VisibleTo(actor) {
		return nil, domain.ErrNotFound
	}

	message := &domain.Message{
		ID:         uuid.NewString(),
		FromUserID: actor.ID,
		ToUserID:   toUserID,
		ListingID:  listingID,
		Content:    content,
		Read:       false,
		CreatedAt:  time.Now().UTC(),
	}
	if err := uc.messages.Create(ctx, message); err != nil {
		uc.logger.Error("failed to send message",
			zap.String("from", actor.ID),
			zap.String("to", toUserID),
			zap.Error(err))
		return nil, err
	}
	return message, nil
}

// Inbox returns every message the actor sent or received, newest first.
func (uc *MessageUsecase) Inbox(ctx context.Context, actor *domain.User) ([]*domain.Message, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	return uc.messages.FindByUser(ctx, actor.ID)
}

// Conversation returns the actor's messages about one listing in
// chronological order.
func (uc *MessageUsecase) Conversation(ctx context.Context, actor *domain.User, listingID string) ([]*domain.Message, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	if listingID == "" {
		return nil, fmt.Errorf("%w: listing id is required", domain.ErrInvalidInput)
	}
	return uc.messages.FindConversation(ctx, listingID, actor.ID)
}
