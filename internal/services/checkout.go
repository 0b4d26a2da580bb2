package services

import (
	"context"
	"encoding/json"
	"math"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/classbridge-backend/internal/clients/razorpay"
	"github.com/yungbote/classbridge-backend/internal/data/repos"
	types "github.com/yungbote/classbridge-backend/internal/domain"
	domainagg "github.com/yungbote/classbridge-backend/internal/domain/aggregates"
	"github.com/yungbote/classbridge-backend/internal/observability"
	"github.com/yungbote/classbridge-backend/internal/pkg/dbctx"
	"github.com/yungbote/classbridge-backend/internal/pkg/logger"
)

const checkoutCurrency = "INR"

// CheckoutOrder is what the client needs to open the gateway's payment sheet.
type CheckoutOrder struct {
	KeyID             string `json:"keyId"`
	OrderID           string `json:"orderId"`
	Amount            int64  `json:"amount"`
	Currency          string `json:"currency"`
	CourseName        string `json:"courseName"`
	CourseDescription string `json:"courseDescription"`
	UserEmail         string `json:"userEmail"`
	UserName          string `json:"userName"`
}

type VerifyPaymentInput struct {
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required"`
}

type CheckoutService interface {
	Checkout(ctx context.Context, principal types.Principal, courseID uuid.UUID) (*CheckoutOrder, error)
	Verify(ctx context.Context, principal types.Principal, courseID uuid.UUID, in VerifyPaymentInput) (*types.Purchase, error)
}

type CheckoutServiceDeps struct {
	Log       *logger.Logger
	Users     repos.UserRepo
	Courses   repos.CourseRepo
	Purchases repos.PurchaseRepo
	Gateway   razorpay.Gateway
	Metrics   *observability.Metrics
}

type checkoutService struct {
	log       *logger.Logger
	users     repos.UserRepo
	courses   repos.CourseRepo
	purchases repos.PurchaseRepo
	gateway   razorpay.Gateway
	metrics   *observability.Metrics
}

func NewCheckoutService(deps CheckoutServiceDeps) CheckoutService {
	return &checkoutService{
		log:       deps.Log.With("service", "CheckoutService"),
		users:     deps.Users,
		courses:   deps.Courses,
		purchases: deps.Purchases,
		gateway:   deps.Gateway,
		metrics:   deps.Metrics,
	}
}

func (s *checkoutService) Checkout(ctx context.Context, principal types.Principal, courseID uuid.UUID) (*CheckoutOrder, error) {
	const op = "Checkout.Checkout"
	if err := requireUser(op, principal); err != nil {
		return nil, err
	}
	if s.gateway == nil {
		return nil, domainagg.NewError(domainagg.CodePreconditionFailed, op, "Payments are not configured", nil)
	}
	dbc := dbctx.New(ctx)
	user, err := s.users.GetByID(dbc, principal.UserID)
	if err != nil {
		return nil, internalError(op, err)
	}
	if user == nil {
		return nil, domainagg.Unauthorized(op, "Unauthorized")
	}
	course, err := s.courses.GetByID(dbc, courseID)
	if err != nil {
		return nil, internalError(op, err)
	}
	if course == nil || !course.IsPublished {
		return nil, domainagg.NotFound(op, "Course not found")
	}
	existing, err := s.purchases.GetByUserCourse(dbc, user.ID, course.ID)
	if err != nil {
		return nil, internalError(op, err)
	}
	if existing != nil {
		return nil, domainagg.Validation(op, "Already purchased")
	}

	amount := AmountInPaise(course.Price)
	order, err := s.gateway.CreateOrder(ctx, razorpay.OrderRequest{
		Amount:   amount,
		Currency: checkoutCurrency,
		Receipt:  "course_" + course.ID.String(),
		Notes: map[string]string{
			"courseId": course.ID.String(),
			"userId":   user.ID.String(),
		},
	})
	if err != nil {
		s.log.Error("create payment order failed", "course_id", course.ID, "user_id", user.ID, "error", err)
		return nil, internalError(op, err)
	}
	return &CheckoutOrder{
		KeyID:             s.gateway.KeyID(),
		OrderID:           order.ID,
		Amount:            amount,
		Currency:          checkoutCurrency,
		CourseName:        course.Title,
		CourseDescription: course.Description,
		UserEmail:         user.Email,
		UserName:          user.Name,
	}, nil
}

// Verify records the purchase once the gateway signature checks out. Repeating a verified
// payment returns the existing purchase.
func (s *checkoutService) Verify(ctx context.Context, principal types.Principal, courseID uuid.UUID, in VerifyPaymentInput) (*types.Purchase, error) {
	const op = "Checkout.Verify"
	if err := requireUser(op, principal); err != nil {
		return nil, err
	}
	if s.gateway == nil {
		return nil, domainagg.NewError(domainagg.CodePreconditionFailed, op, "Payments are not configured", nil)
	}
	in.OrderID = strings.TrimSpace(in.OrderID)
	in.PaymentID = strings.TrimSpace(in.PaymentID)
	in.Signature = strings.TrimSpace(in.Signature)
	if err := validatorInstance().Struct(in); err != nil {
		return nil, domainagg.Validation(op, validationMessage(err))
	}
	if !s.gateway.VerifyPaymentSignature(in.OrderID, in.PaymentID, in.Signature) {
		s.log.Warn("payment signature mismatch", "course_id", courseID, "user_id", principal.UserID, "order_id", in.OrderID)
		return nil, domainagg.Validation(op, "Invalid Signature")
	}
	order, err := s.gateway.FetchOrder(ctx, in.OrderID)
	if err != nil {
		s.log.Error("fetch payment order failed", "course_id", courseID, "order_id", in.OrderID, "error", err)
		return nil, internalError(op, err)
	}
	if !orderMatches(order, courseID, principal.UserID) {
		s.log.Warn("payment order does not match purchase", "course_id", courseID, "user_id", principal.UserID, "order_id", in.OrderID, "receipt", order.Receipt)
		return nil, domainagg.Validation(op, "Order does not match this course")
	}
	dbc := dbctx.New(ctx)
	course, err := s.courses.GetByID(dbc, courseID)
	if err != nil {
		return nil, internalError(op, err)
	}
	if course == nil {
		return nil, domainagg.NotFound(op, "Course not found")
	}
	notes, err := json.Marshal(map[string]string{
		"orderId":   in.OrderID,
		"paymentId": in.PaymentID,
		"signature": in.Signature,
	})
	if err != nil {
		return nil, internalError(op, err)
	}
	purchase, err := s.purchases.Create(dbc, &types.Purchase{
		ID:           uuid.New(),
		UserID:       principal.UserID,
		CourseID:     course.ID,
		Price:        course.Price,
		OrderID:      in.OrderID,
		PaymentID:    in.PaymentID,
		GatewayNotes: datatypes.JSON(notes),
	})
	if err != nil {
		return nil, passthrough(op, err)
	}
	s.metrics.IncPurchase()
	s.log.Info("purchase recorded", "course_id", course.ID, "user_id", principal.UserID, "order_id", in.OrderID)
	return purchase, nil
}

// AmountInPaise converts a rupee price to the gateway's minor unit, rounding half away from zero.
func AmountInPaise(price float64) int64 {
	return int64(math.Round(price * 100))
}

// orderMatches reports whether the gateway order was opened by Checkout for this course and user.
func orderMatches(order *razorpay.Order, courseID, userID uuid.UUID) bool {
	if order == nil {
		return false
	}
	if cid, ok := order.Notes["courseId"]; ok {
		if cid != courseID.String() {
			return false
		}
	} else if order.Receipt != "course_"+courseID.String() {
		return false
	}
	if uid, ok := order.Notes["userId"]; ok && uid != userID.String() {
		return false
	}
	return true
}
