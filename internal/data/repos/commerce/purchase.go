package commerce

import (
	"github.com/google/uuid"
	types "github.com/yungbote/classbridge-backend/internal/domain"
	"github.com/yungbote/classbridge-backend/internal/pkg/dbctx"
	"github.com/yungbote/classbridge-backend/internal/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CourseRevenue is one row of the per-course sales rollup.
type CourseRevenue struct {
	CourseID uuid.UUID `json:"course_id"`
	Title    string    `json:"title"`
	Revenue  float64   `json:"revenue"`
	Sales    int64     `json:"sales"`
}

type PurchaseRepo interface {
	// Create inserts the purchase; an existing (user, course) row wins and is returned instead.
	Create(dbc dbctx.Context, purchase *types.Purchase) (*types.Purchase, error)
	GetByUserCourse(dbc dbctx.Context, userID, courseID uuid.UUID) (*types.Purchase, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Purchase, error)
	RevenueByCourse(dbc dbctx.Context) ([]CourseRevenue, error)
	CountDistinctUsers(dbc dbctx.Context) (int64, error)
}

type purchaseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPurchaseRepo(db *gorm.DB, baseLog *logger.Logger) PurchaseRepo {
	repoLog := baseLog.With("repo", "PurchaseRepo")
	return &purchaseRepo{db: db, log: repoLog}
}

func (r *purchaseRepo) Create(dbc dbctx.Context, purchase *types.Purchase) (*types.Purchase, error) {
	if err := dbc.DB(r.db).
		Omit("Course").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoNothing: true,
		}).
		Create(purchase).Error; err != nil {
		return nil, err
	}
	return r.GetByUserCourse(dbc, purchase.UserID, purchase.CourseID)
}

func (r *purchaseRepo) GetByUserCourse(dbc dbctx.Context, userID, courseID uuid.UUID) (*types.Purchase, error) {
	var results []*types.Purchase
	if err := dbc.DB(r.db).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// ListByUser returns the user's purchases with their course, newest first.
func (r *purchaseRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Purchase, error) {
	var results []*types.Purchase
	if err := dbc.DB(r.db).
		Preload("Course").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// RevenueByCourse sums purchase prices per course, largest revenue first.
func (r *purchaseRepo) RevenueByCourse(dbc dbctx.Context) ([]CourseRevenue, error) {
	var rows []CourseRevenue
	if err := dbc.DB(r.db).
		Model(&types.Purchase{}).
		Select("purchase.course_id AS course_id, course.title AS title, SUM(purchase.price) AS revenue, COUNT(*) AS sales").
		Joins("JOIN course ON course.id = purchase.course_id").
		Group("purchase.course_id, course.title").
		Order("revenue DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *purchaseRepo) CountDistinctUsers(dbc dbctx.Context) (int64, error) {
	var n int64
	err := dbc.DB(r.db).Model(&types.Purchase{}).Distinct("user_id").Count(&n).Error
	return n, err
}
