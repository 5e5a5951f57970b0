package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/bazaar-team/bazaar-backend/internal/account/entity"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrDuplicatePhone     = errors.New("phone number already exists")
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
}

type UserUsecase struct {
	repo   UserRepository
	logger *zap.Logger
}

func NewUserUsecase(repo UserRepository, logger *zap.Logger) *UserUsecase {
	return &UserUsecase{repo: repo, logger: logger}
}

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

func (u *UserUsecase) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	u.logger.Info("UserUsecase.Register: registering user", zap.String("username", in.Username))

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		u.logger.Error("UserUsecase.Register: failed to hash password", zap.Error(err))
		return nil, err
	}

	user := &entity.User{
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		PasswordHash: string(hash),
		Role:         entity.RoleCustomer,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := u.repo.Create(ctx, user); err != nil {
		u.logger.Error("UserUsecase.Register: failed to create user",
			zap.String("username", in.Username), zap.Error(err))
		return nil, err
	}
	return user, nil
}

// Authenticate checks the username/password pair and returns the matching
// user. Unknown user and wrong password collapse into the same error so the
// token endpoint does not leak which usernames exist.
func (u *UserUsecase) Authenticate(ctx context.Context, username, password string) (*entity.User, error) {
	user, err := u.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		u.logger.Error("UserUsecase.Authenticate: repository failure",
			zap.String("username", username), zap.Error(err))
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		u.logger.Warn("UserUsecase.Authenticate: password mismatch", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (u *UserUsecase) GetProfile(ctx context.Context, userID int64) (*entity.User, error) {
	return u.repo.FindByID(ctx, userID)
}

type ProfileUpdate struct {
	Email     *string
	FirstName *string
	LastName  *string
	Phone     *string
}

func (u *UserUsecase) UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (*entity.User, error) {
	u.logger.Info("UserUsecase.UpdateProfile: updating profile", zap.Int64("user_id", userID))

	user, err := u.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.FirstName != nil {
		user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		user.LastName = *update.LastName
	}
	if update.Phone != nil {
		user.Phone = *update.Phone
	}
	user.UpdatedAt = time.Now()

	if err := u.repo.Update(ctx, user); err != nil {
		u.logger.Error("UserUsecase.UpdateProfile: failed to update user",
			zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}
	return user, nil
}
