package uploadController

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"showroom/config"
	"showroom/internal/database"
	. "showroom/internal/models"
	"showroom/internal/policy"
	"showroom/internal/repositories"
	"showroom/internal/services"
	"showroom/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SCANNER_TARGET_GENERAL = "general"
	MAX_CAR_IMAGES         = 10

	scannerFolder = "scanners"
	receiptFolder = "receipts"
	carFolder     = "cars"
)

type OwnerResolver interface {
	ResolvePaymentOwner(ctx context.Context, paymentID uuid.UUID) (uuid.UUID, error)
}

type ScannerResult struct {
	URL       string     `json:"url"`
	Target    string     `json:"target"`
	PaymentID *uuid.UUID `json:"paymentId,omitempty"`
	RoomID    *uuid.UUID `json:"roomId,omitempty"`
}

type UploadControllerInterface interface {
	Scanner(ctx context.Context, actor *User, target string, file *multipart.FileHeader) (*ScannerResult, error)
	Upload(ctx context.Context, actor *User, file *multipart.FileHeader) (string, error)
	UploadCarImages(ctx context.Context, actor *User, files []*multipart.FileHeader) ([]string, error)
}

type UploadController struct {
	roomRepo repositories.RoomRepository
	owners   OwnerResolver
	store    services.ImageStore
	db       *gorm.DB
	config   config.Config
	log      logger.Logger
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) UploadControllerInterface {
	return &UploadController{
		roomRepo: repos.Room,
		owners:   services.Ownership,
		store:    services.Storage,
		db:       db.SQL,
		config:   config,
		log:      logger.New("uploadController"),
	}
}

// Scanner stores a payment QR image. A payment target is authorized before anything is written;
// the payment row itself is left for a later approval to attach.
func (uc *UploadController) Scanner(
	ctx context.Context,
	actor *User,
	target string,
	file *multipart.FileHeader,
) (*ScannerResult, error) {
	log := uc.log.TraceFromContext(ctx).Function("Scanner")

	if !policy.IsStaff(actor) {
		return nil, types.Forbidden("only admins can upload scanner images")
	}

	target = strings.TrimSpace(target)
	if target == "" {
		target = SCANNER_TARGET_GENERAL
	}
	result := &ScannerResult{Target: target}

	if target != SCANNER_TARGET_GENERAL {
		paymentID, err := uuid.Parse(target)
		if err != nil {
			return nil, types.Validation("target must be %q or a payment id", SCANNER_TARGET_GENERAL)
		}
		ownerID, err := uc.owners.ResolvePaymentOwner(ctx, paymentID)
		if err != nil {
			return nil, err
		}
		if !policy.CanManage(actor, ownerID) {
			return nil, types.Forbidden("payment belongs to another room")
		}
		result.PaymentID = &paymentID
	}

	url, err := uc.store.SaveImage(ctx, scannerFolder, file)
	if err != nil {
		return nil, err
	}
	result.URL = url

	if result.PaymentID == nil && actor.Role == RoleAdmin {
		room, err := uc.roomRepo.GetByAdminID(ctx, uc.db, actor.ID)
		switch {
		case err == nil:
			if err := uc.roomRepo.SetScannerImage(ctx, uc.db, room.ID, url); err != nil {
				return nil, err
			}
			result.RoomID = &room.ID
		case errors.Is(err, types.ErrNotFound):
			log.Warn("admin has no room for general scanner image", "adminID", actor.ID)
		default:
			return nil, err
		}
	}

	log.Info("Scanner image stored", "target", target, "by", actor.ID)
	return result, nil
}

func (uc *UploadController) Upload(ctx context.Context, actor *User, file *multipart.FileHeader) (string, error) {
	if actor == nil {
		return "", fmt.Errorf("%w: login required", types.ErrUnauthorized)
	}
	return uc.store.SaveImage(ctx, receiptFolder, file)
}

func (uc *UploadController) UploadCarImages(
	ctx context.Context,
	actor *User,
	files []*multipart.FileHeader,
) ([]string, error) {
	if !policy.IsStaff(actor) {
		return nil, types.Forbidden("only admins can upload car images")
	}
	if len(files) == 0 {
		return nil, types.Validation("at least one image is required")
	}
	if len(files) > MAX_CAR_IMAGES {
		return nil, types.Validation("at most %d images per upload", MAX_CAR_IMAGES)
	}

	urls := make([]string, 0, len(files))
	for _, file := range files {
		url, err := uc.store.SaveImage(ctx, carFolder, file)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}
