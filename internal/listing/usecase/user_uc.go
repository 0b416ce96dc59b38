package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/encounterhub/listing-service/internal/listing/domain"
	"github.com/encounterhub/listing-service/internal/platform/logger"
	"go.uber.org/zap"
)

// UserUsecase implements the admin account management surface and the public
// platform stats.
type UserUsecase struct {
	users     domain.UserRepository
	listings  domain.ListingRepository
	favorites domain.FavoriteRepository
	messages  domain.MessageRepository
	logger    *logger.Logger
}

func NewUserUsecase(
	users domain.UserRepository,
	listings domain.ListingRepository,
	favorites domain.FavoriteRepository,
	messages domain.MessageRepository,
	log *logger.Logger,
) *UserUsecase {
	return &UserUsecase{
		users:     users,
		listings:  listings,
		favorites: favorites,
		messages:  messages,
		logger:    log.Named("UserUsecase"),
	}
}

// List returns every account, newest first. Admin only.
func (uc *UserUsecase) List(ctx context.Context, actor *domain.User) ([]*domain.User, error) {
	if !domain.CanModerate(actor) {
		return nil, fmt.Errorf("%w: admin access required", domain.ErrForbidden)
	}
	return uc.users.FindAll(ctx)
}

// SetStatus changes an account's lifecycle status. Admin only.
func (uc *UserUsecase) SetStatus(ctx context.Context, actor *domain.User, userID string, status domain.UserStatus) (*domain.User, error) {
	if !domain.CanModerate(actor) {
		return nil, fmt.Errorf("%w: admin access required", domain.ErrForbidden)
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown user status %q", domain.ErrInvalidInput, status)
	}
	updated, err := uc.users.UpdateStatus(ctx, userID, status)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("user status changed",
		zap.String("user_id", userID),
		zap.String("status", string(status)),
		zap.String("admin_id", actor.ID))
	return updated, nil
}

// SetRole changes an account's role. Admins may not demote themselves; that
// guards against locking the last admin out.
func (uc *UserUsecase) SetRole(ctx context.Context, actor *domain.User, userID string, role domain.UserRole) (*domain.User, error) {
	if !domain.CanModerate(actor) {
		return nil, fmt.Errorf("%w: admin access required", domain.ErrForbidden)
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: unknown user role %q", domain.ErrInvalidInput, role)
	}
	if userID == actor.ID && role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: admins cannot demote themselves", domain.ErrInvalidInput)
	}
	updated, err := uc.users.UpdateRole(ctx, userID, role)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("user role changed",
		zap.String("user_id", userID),
		zap.String("role", string(role)),
		zap.String("admin_id", actor.ID))
	return updated, nil
}

// SetVIP grants or revokes VIP standing. Admin only.
func (uc *UserUsecase) SetVIP(ctx context.Context, actor *domain.User, userID string, vip bool, expiry *time.Time) (*domain.User, error) {
	if !domain.CanModerate(actor) {
		return nil, fmt.Errorf("%w: admin access required", domain.ErrForbidden)
	}
	if vip && expiry != nil && expiry.Before(time.Now()) {
		return nil, fmt.Errorf("%w: vip expiry is in the past", domain.ErrInvalidInput)
	}
	return uc.users.SetVIP(ctx, userID, vip, expiry)
}

// Delete removes an account and everything it owns: its listings with their
// favorites, its own bookmarks, and the messages it authored or received.
func (uc *UserUsecase) Delete(ctx context.Context, actor *domain.User, userID string) error {
	if !domain.CanModerate(actor) {
		return fmt.Errorf("%w: admin access required", domain.ErrForbidden)
	}
	if userID == actor.ID {
		return fmt.Errorf("%w: admins cannot delete themselves", domain.ErrInvalidInput)
	}
	if _, err := uc.users.FindByID(ctx, userID); err != nil {
		return err
	}

	if err := uc.listings.DeleteByUser(ctx, userID); err != nil {
		uc.logger.Error("failed to delete user listings", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	if err := uc.favorites.RemoveByUser(ctx, userID); err != nil {
		uc.logger.Error("failed to delete user favorites", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	if err := uc.messages.RemoveByUser(ctx, userID); err != nil {
		uc.logger.Error("failed to delete user messages", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	if err := uc.users.Delete(ctx, userID); err != nil {
		uc.logger.Error("failed to delete user", zap.String("user_id", userID), zap.Error(err))
		return err
	}

	uc.logger.Info("user deleted",
		zap.String("user_id", userID),
		zap.String("admin_id", actor.ID))
	return nil
}

// Stats is the public platform counters payload.
type Stats struct {
	TotalListings int64 `json:"total_listings"`
	TotalUsers    int64 `json:"total_users"`
}

// Stats returns the approved listing count and the account count.
func (uc *UserUsecase) Stats(ctx context.Context) (*Stats, error) {
	totalListings, err := uc.listings.CountByFilter(ctx, domain.Filter{Status: domain.StatusApproved})
	if err != nil {
		return nil, err
	}
	totalUsers, err := uc.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{TotalListings: totalListings, TotalUsers: totalUsers}, nil
}
