package paymentController

import (
	"context"
	"errors"
	"fmt"
	"time"

	"showroom/config"
	"showroom/internal/database"
	. "showroom/internal/models"
	"showroom/internal/policy"
	"showroom/internal/repositories"
	"showroom/internal/services"
	"showroom/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SubmitPaymentRequest struct {
	BookingID       uuid.UUID       `json:"bookingId"`
	Amount          decimal.Decimal `json:"amount"`
	ReceiptImageURL string          `json:"receiptImageUrl"`
	Method          string          `json:"method"`
}

type ApprovePaymentRequest struct {
	Status               string     `json:"status"`
	ScannerImageURL      *string    `json:"scannerImageUrl"`
	AdminNotes           *string    `json:"adminNotes"`
	ExpectedDeliveryDate *time.Time `json:"expectedDeliveryDate"`
}

type RejectPaymentRequest struct {
	AdminNotes *string `json:"adminNotes"`
}

type OwnerResolver interface {
	ResolveCarOwner(ctx context.Context, carID uuid.UUID) (uuid.UUID, error)
	ResolvePaymentOwner(ctx context.Context, paymentID uuid.UUID) (uuid.UUID, error)
}

type PaymentControllerInterface interface {
	Submit(ctx context.Context, actor *User, req SubmitPaymentRequest) (*Payment, error)
	Approve(ctx context.Context, actor *User, id uuid.UUID, req ApprovePaymentRequest) (*Payment, error)
	Reject(ctx context.Context, actor *User, id uuid.UUID, req RejectPaymentRequest) (*Payment, error)
	Get(ctx context.Context, actor *User, id uuid.UUID) (*PaymentDetail, error)
	ListForAdmin(ctx context.Context, actor *User) ([]*Payment, error)
	ListMine(ctx context.Context, actor *User) ([]*Payment, error)
}

type PaymentController struct {
	paymentRepo repositories.PaymentRepository
	bookingRepo repositories.BookingRepository
	carRepo     repositories.CarRepository
	userRepo    repositories.UserRepository
	owners      OwnerResolver
	notifier    services.Notifier
	db          *gorm.DB
	config      config.Config
	log         logger.Logger
	now         func() time.Time
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) PaymentControllerInterface {
	return &PaymentController{
		paymentRepo: repos.Payment,
		bookingRepo: repos.Booking,
		carRepo:     repos.Car,
		userRepo:    repos.User,
		owners:      services.Ownership,
		notifier:    services.Notification,
		db:          db.SQL,
		config:      config,
		log:         logger.New("paymentController"),
		now:         time.Now,
	}
}

// Submit does not reconcile the amount against the booking total.
func (pc *PaymentController) Submit(
	ctx context.Context,
	actor *User,
	req SubmitPaymentRequest,
) (*Payment, error) {
	log := pc.log.TraceFromContext(ctx).Function("Submit")

	if actor == nil {
		return nil, fmt.Errorf("%w: login required", types.ErrUnauthorized)
	}
	if !req.Amount.IsPositive() {
		return nil, types.Validation("amount must be positive")
	}

	booking, err := pc.bookingRepo.GetByID(ctx, pc.db, req.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != actor.ID && !policy.IsSuperadmin(actor) {
		return nil, types.Forbidden("booking belongs to another user")
	}

	payment := &Payment{
		BookingID:       booking.ID,
		UserID:          booking.UserID,
		Amount:          req.Amount,
		ReceiptImageURL: req.ReceiptImageURL,
		Method:          req.Method,
		Status:          PaymentPending,
	}
	if err := pc.paymentRepo.Create(ctx, pc.db, payment); err != nil {
		return nil, err
	}

	log.Info("Payment submitted", "paymentID", payment.ID, "bookingID", booking.ID, "amount", payment.Amount)

	ownerID, err := pc.owners.ResolveCarOwner(ctx, booking.CarID)
	if err != nil {
		log.Warn("failed to resolve room admin for payment notification", "bookingID", booking.ID, "error", err)
	} else {
		services.NotifyQuietly(ctx, pc.notifier, log, ownerID,
			NotificationNewPayment,
			"New payment",
			fmt.Sprintf("%s submitted a payment of %s", actor.Name, payment.Amount.StringFixed(2)),
			&payment.ID,
		)
	}

	return payment, nil
}

// Approve sets status, approver and approval time in a single write.
func (pc *PaymentController) Approve(
	ctx context.Context,
	actor *User,
	id uuid.UUID,
	req ApprovePaymentRequest,
) (*Payment, error) {
	log := pc.log.TraceFromContext(ctx).Function("Approve")

	status := PaymentApproved
	if req.Status != "" {
		parsed, ok := ParsePaymentStatus(req.Status)
		if !ok || (parsed != PaymentApproved && parsed != PaymentCompleted) {
			return nil, types.Validation("approval status must be approved or completed")
		}
		status = parsed
	}

	payment, err := pc.reviewable(ctx, actor, id, status)
	if err != nil {
		return nil, err
	}

	if err := pc.paymentRepo.Approve(ctx, pc.db, payment.ID, repositories.PaymentApproval{
		Status:               status,
		ApprovedBy:           actor.ID,
		ApprovedAt:           pc.now().UTC(),
		ScannerImageURL:      req.ScannerImageURL,
		AdminNotes:           req.AdminNotes,
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
	}); err != nil {
		return nil, err
	}

	log.Info("Payment approved", "paymentID", payment.ID, "status", status, "by", actor.ID)

	services.NotifyQuietly(ctx, pc.notifier, log, payment.UserID,
		NotificationPaymentApproved,
		"Payment approved",
		fmt.Sprintf("Your payment of %s was %s", payment.Amount.StringFixed(2), status),
		&payment.ID,
	)

	return pc.paymentRepo.GetByID(ctx, pc.db, payment.ID)
}

// Reject never touches the booking or any earlier approval fields.
func (pc *PaymentController) Reject(
	ctx context.Context,
	actor *User,
	id uuid.UUID,
	req RejectPaymentRequest,
) (*Payment, error) {
	log := pc.log.TraceFromContext(ctx).Function("Reject")

	payment, err := pc.reviewable(ctx, actor, id, PaymentRejected)
	if err != nil {
		return nil, err
	}

	if err := pc.paymentRepo.Reject(ctx, pc.db, payment.ID, req.AdminNotes); err != nil {
		return nil, err
	}

	log.Info("Payment rejected", "paymentID", payment.ID, "by", actor.ID)

	message := "Your payment was rejected"
	if req.AdminNotes != nil && *req.AdminNotes != "" {
		message += ": " + *req.AdminNotes
	}
	services.NotifyQuietly(ctx, pc.notifier, log, payment.UserID,
		NotificationPaymentRejected,
		"Payment rejected",
		message,
		&payment.ID,
	)

	return pc.paymentRepo.GetByID(ctx, pc.db, payment.ID)
}

func (pc *PaymentController) Get(ctx context.Context, actor *User, id uuid.UUID) (*PaymentDetail, error) {
	if actor == nil {
		return nil, fmt.Errorf("%w: login required", types.ErrUnauthorized)
	}

	payment, err := pc.paymentRepo.GetByID(ctx, pc.db, id)
	if err != nil {
		return nil, err
	}

	if payment.UserID != actor.ID && !policy.IsSuperadmin(actor) {
		if actor.Role != RoleAdmin {
			return nil, types.Forbidden("payment belongs to another user")
		}
		ownerID, err := pc.owners.ResolvePaymentOwner(ctx, payment.ID)
		if err != nil {
			return nil, err
		}
		if !policy.CanManage(actor, ownerID) {
			return nil, types.Forbidden("payment belongs to another room")
		}
	}

	return pc.detail(ctx, payment)
}

func (pc *PaymentController) ListForAdmin(ctx context.Context, actor *User) ([]*Payment, error) {
	if !policy.IsStaff(actor) {
		return nil, types.Forbidden("only admins can list room payments")
	}

	scope := repositories.Scope{}
	if actor.Role == RoleAdmin {
		scope.RoomAdminID = &actor.ID
	}
	return pc.paymentRepo.List(ctx, pc.db, scope)
}

func (pc *PaymentController) ListMine(ctx context.Context, actor *User) ([]*Payment, error) {
	if actor == nil {
		return nil, fmt.Errorf("%w: login required", types.ErrUnauthorized)
	}
	return pc.paymentRepo.List(ctx, pc.db, repositories.Scope{UserID: &actor.ID})
}

// reviewable loads the payment and checks the actor may move it to next.
func (pc *PaymentController) reviewable(
	ctx context.Context,
	actor *User,
	id uuid.UUID,
	next PaymentStatus,
) (*Payment, error) {
	if !policy.IsStaff(actor) {
		return nil, types.Forbidden("only admins can review payments")
	}

	payment, err := pc.paymentRepo.GetByID(ctx, pc.db, id)
	if err != nil {
		return nil, err
	}

	ownerID, err := pc.owners.ResolvePaymentOwner(ctx, payment.ID)
	if err != nil {
		return nil, err
	}
	if !policy.CanManage(actor, ownerID) {
		return nil, types.Forbidden("payment belongs to another room")
	}

	if pc.config.EnforceStatusTransitions && !payment.Status.CanTransitionTo(next) {
		return nil, types.InvalidTransition(string(payment.Status), string(next))
	}
	return payment, nil
}

func (pc *PaymentController) detail(ctx context.Context, payment *Payment) (*PaymentDetail, error) {
	detail := &PaymentDetail{Payment: *payment}

	booking, err := pc.bookingRepo.GetByID(ctx, pc.db, payment.BookingID)
	if err != nil && !errors.Is(err, types.ErrNotFound) {
		return nil, err
	}
	if booking != nil {
		summary := booking.ToSummary()
		detail.Booking = &summary

		car, err := pc.carRepo.GetByID(ctx, pc.db, booking.CarID)
		if err != nil && !errors.Is(err, types.ErrNotFound) {
			return nil, err
		}
		if car != nil {
			carSummary := car.ToSummary()
			detail.Car = &carSummary
		}
	}

	user, err := pc.userRepo.GetByID(ctx, pc.db, payment.UserID)
	if err != nil && !errors.Is(err, types.ErrNotFound) {
		return nil, err
	}
	if user != nil {
		profile := user.ToProfile()
		detail.User = &profile
	}

	return detail, nil
}
