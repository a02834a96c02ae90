package userController

import (
	"context"
	"strings"

	"showroom/config"
	"showroom/internal/database"
	"showroom/internal/events"
	. "showroom/internal/models"
	"showroom/internal/policy"
	"showroom/internal/repositories"
	"showroom/internal/services"
	"showroom/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UpdateProfileRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

type UserControllerInterface interface {
	Me(ctx context.Context, actor *User) (*UserProfile, error)
	UpdateMe(ctx context.Context, actor *User, req UpdateProfileRequest) (*UserProfile, error)
	ListUsers(ctx context.Context, actor *User, page repositories.Page) ([]UserProfile, int64, error)
	SetRole(ctx context.Context, actor *User, userID uuid.UUID, role string) (*UserProfile, error)
}

type UserController struct {
	userRepo  repositories.UserRepository
	publisher events.Publisher
	db        *gorm.DB
	Config    config.Config
	log       logger.Logger
}

func New(
	repos repositories.Repository,
	services services.Service,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) UserControllerInterface {
	controller := &UserController{
		userRepo: repos.User,
		db:       db.SQL,
		Config:   config,
		log:      logger.New("userController"),
	}
	if eventBus != nil {
		controller.publisher = eventBus
	}
	return controller
}

func (uc *UserController) Me(ctx context.Context, actor *User) (*UserProfile, error) {
	if actor == nil {
		return nil, types.ErrUnauthorized
	}
	profile := actor.ToProfile()
	return &profile, nil
}

func (uc *UserController) UpdateMe(
	ctx context.Context,
	actor *User,
	req UpdateProfileRequest,
) (*UserProfile, error) {
	if actor == nil {
		return nil, types.ErrUnauthorized
	}

	updated := *actor
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, types.Validation("name cannot be empty")
		}
		updated.Name = name
	}
	if req.Phone != nil {
		updated.Phone = strings.TrimSpace(*req.Phone)
	}

	if err := uc.userRepo.Update(ctx, uc.db, &updated); err != nil {
		return nil, err
	}

	profile := updated.ToProfile()
	return &profile, nil
}

func (uc *UserController) ListUsers(
	ctx context.Context,
	actor *User,
	page repositories.Page,
) ([]UserProfile, int64, error) {
	if !policy.IsSuperadmin(actor) {
		return nil, 0, types.Forbidden("superadmin only")
	}

	users, total, err := uc.userRepo.List(ctx, uc.db, page)
	if err != nil {
		return nil, 0, err
	}

	profiles := make([]UserProfile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, user.ToProfile())
	}
	return profiles, total, nil
}

// SetRole takes effect on the target's next request because the auth middleware reloads the stored role.
func (uc *UserController) SetRole(
	ctx context.Context,
	actor *User,
	userID uuid.UUID,
	role string,
) (*UserProfile, error) {
	log := uc.log.TraceFromContext(ctx).Function("SetRole")

	if !policy.IsSuperadmin(actor) {
		return nil, types.Forbidden("superadmin only")
	}

	parsed, ok := ParseRole(role)
	if !ok {
		return nil, types.Validation("unknown role %q", role)
	}
	if userID == actor.ID {
		return nil, types.Forbidden("cannot change your own role")
	}

	if err := uc.userRepo.UpdateRole(ctx, uc.db, userID, parsed); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByID(ctx, uc.db, userID)
	if err != nil {
		return nil, err
	}

	if uc.publisher != nil {
		if err := uc.publisher.Publish(events.USER_CHANNEL, events.Event{
			Type:   events.ROLE_CHANGED,
			UserID: &userID,
			Data:   map[string]any{"role": parsed},
		}); err != nil {
			log.Warn("failed to publish role change", "userID", userID, "error", err)
		}
	}

	log.Info("User role changed", "userID", userID, "role", parsed, "by", actor.ID)
	profile := user.ToProfile()
	return &profile, nil
}
