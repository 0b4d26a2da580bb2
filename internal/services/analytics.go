package services

import (
	"context"

	"github.com/yungbote/classbridge-backend/internal/data/repos"
	types "github.com/yungbote/classbridge-backend/internal/domain"
	"github.com/yungbote/classbridge-backend/internal/pkg/dbctx"
	"github.com/yungbote/classbridge-backend/internal/pkg/logger"
)

type CourseSales struct {
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
	Sales   int64   `json:"sales"`
}

type Analytics struct {
	Data           []CourseSales `json:"data"`
	TotalRevenue   float64       `json:"totalRevenue"`
	TotalSales     int64         `json:"totalSales"`
	UniqueStudents int64         `json:"uniqueStudents"`
}

type AnalyticsService interface {
	Summary(ctx context.Context, principal types.Principal) (*Analytics, error)
}

type analyticsService struct {
	log       *logger.Logger
	purchases repos.PurchaseRepo
}

func NewAnalyticsService(log *logger.Logger, purchases repos.PurchaseRepo) AnalyticsService {
	return &analyticsService{log: log.With("service", "AnalyticsService"), purchases: purchases}
}

// Summary rolls purchases up by course title.
func (s *analyticsService) Summary(ctx context.Context, principal types.Principal) (*Analytics, error) {
	const op = "Analytics.Summary"
	if err := requireAdmin(op, principal); err != nil {
		return nil, err
	}
	dbc := dbctx.New(ctx)
	rows, err := s.purchases.RevenueByCourse(dbc)
	if err != nil {
		return nil, internalError(op, err)
	}
	students, err := s.purchases.CountDistinctUsers(dbc)
	if err != nil {
		return nil, internalError(op, err)
	}
	out := &Analytics{Data: make([]CourseSales, 0, len(rows)), UniqueStudents: students}
	for _, r := range rows {
		out.Data = append(out.Data, CourseSales{Name: r.Title, Revenue: r.Revenue, Sales: r.Sales})
		out.TotalRevenue += r.Revenue
		out.TotalSales += r.Sales
	}
	return out, nil
}
