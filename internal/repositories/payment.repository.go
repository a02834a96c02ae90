package repositories

import (
	"context"
	"time"

	. "showroom/internal/models"
	"showroom/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentApproval is written in one UPDATE so approved_by and approved_at never diverge.
type PaymentApproval struct {
	Status               PaymentStatus
	ApprovedBy           uuid.UUID
	ApprovedAt           time.Time
	ScannerImageURL      *string
	AdminNotes           *string
	ExpectedDeliveryDate *time.Time
}

type PaymentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, payment *Payment) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Payment, error)
	Approve(ctx context.Context, tx *gorm.DB, id uuid.UUID, approval PaymentApproval) error
	Reject(ctx context.Context, tx *gorm.DB, id uuid.UUID, notes *string) error
	List(ctx context.Context, tx *gorm.DB, scope Scope) ([]*Payment, error)
}

type paymentRepository struct {
	log logger.Logger
}

func NewPaymentRepository() PaymentRepository {
	return &paymentRepository{log: logger.New("paymentRepository")}
}

func (r *paymentRepository) Create(ctx context.Context, tx *gorm.DB, payment *Payment) error {
	log := r.log.TraceFromContext(ctx).Function("Create")

	if payment.Status == "" {
		payment.Status = PaymentPending
	}
	if err := tx.WithContext(ctx).Create(payment).Error; err != nil {
		return dbError(log, "failed to create payment", err, "bookingID", payment.BookingID)
	}
	return nil
}

func (r *paymentRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Payment, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByID")

	payment, err := gorm.G[Payment](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		return nil, dbError(log, "failed to get payment", err, "paymentID", id)
	}
	return &payment, nil
}

func (r *paymentRepository) Approve(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	approval PaymentApproval,
) error {
	log := r.log.TraceFromContext(ctx).Function("Approve")

	changes := map[string]any{
		"status":      approval.Status,
		"approved_by": approval.ApprovedBy,
		"approved_at": approval.ApprovedAt,
	}
	if approval.ScannerImageURL != nil {
		changes["scanner_image_url"] = *approval.ScannerImageURL
	}
	if approval.AdminNotes != nil {
		changes["admin_notes"] = *approval.AdminNotes
	}
	if approval.ExpectedDeliveryDate != nil {
		changes["expected_delivery_date"] = *approval.ExpectedDeliveryDate
	}

	result := tx.WithContext(ctx).Model(&Payment{}).Where("id = ?", id).Updates(changes)
	if result.Error != nil {
		return dbError(log, "failed to approve payment", result.Error, "paymentID", id)
	}
	if result.RowsAffected == 0 {
		return types.ErrNotFound
	}
	return nil
}

// Reject leaves approved_by and approved_at untouched.
func (r *paymentRepository) Reject(ctx context.Context, tx *gorm.DB, id uuid.UUID, notes *string) error {
	log := r.log.TraceFromContext(ctx).Function("Reject")

	changes := map[string]any{"status": PaymentRejected}
	if notes != nil {
		changes["admin_notes"] = *notes
	}

	result := tx.WithContext(ctx).Model(&Payment{}).Where("id = ?", id).Updates(changes)
	if result.Error != nil {
		return dbError(log, "failed to reject payment", result.Error, "paymentID", id)
	}
	if result.RowsAffected == 0 {
		return types.ErrNotFound
	}
	return nil
}

func (r *paymentRepository) List(ctx context.Context, tx *gorm.DB, scope Scope) ([]*Payment, error) {
	log := r.log.TraceFromContext(ctx).Function("List")

	query := tx.WithContext(ctx).Model(&Payment{})
	if scope.RoomAdminID != nil {
		query = query.Where("payments.booking_id IN ("+bookingsInAdminRooms+")", *scope.RoomAdminID)
	}
	if scope.UserID != nil {
		query = query.Where("payments.user_id = ?", *scope.UserID)
	}

	var payments []*Payment
	if err := query.Order("payments.created_at DESC").Find(&payments).Error; err != nil {
		return nil, dbError(log, "failed to list payments", err)
	}
	return payments, nil
}
