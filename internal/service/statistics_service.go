package service

import (
	"context"
	"time"

	"caterops/internal/model"

	"gorm.io/gorm"
)

type StatusBreakdown struct {
	Status     string `json:"status"`
	Count      int64  `json:"count"`
	TotalValue int64  `json:"total_value"`
}

type MonthlyQuotedValue struct {
	Month      string `json:"month"` // YYYY-MM
	Count      int64  `json:"count"`
	TotalValue int64  `json:"total_value"`
}

type ClientRanking struct {
	ClientID   string `json:"client_id"`
	ClientName string `json:"client_name"`
	QuoteCount int64  `json:"quote_count"`
	TotalValue int64  `json:"total_value"`
}

type StatisticsResponse struct {
	TimeRangeStartDate time.Time            `json:"time_range_start_date"`
	TimeRangeEndDate   time.Time            `json:"time_range_end_date"`
	TotalQuotedValue   int64                `json:"total_quoted_value"`
	TotalApprovedValue int64                `json:"total_approved_value"`
	ApprovalRate       float64              `json:"approval_rate"`
	ByStatus           []StatusBreakdown    `json:"by_status"`
	ByMonth            []MonthlyQuotedValue `json:"by_month"`
	TopClients         []ClientRanking      `json:"top_clients"`
}

type StatisticsService interface {
	GetStatistics(ctx context.Context, startDate, endDate time.Time) (StatisticsResponse, error)
}

type statisticsService struct {
	db *gorm.DB
}

func NewStatisticsService(db *gorm.DB) StatisticsService {
	return &statisticsService{db: db}
}

// GetStatistics aggregates quote counts and totals into time brackets. Sums
// read the persisted total column verbatim; no subtotal columns are added up.
func (s *statisticsService) GetStatistics(ctx context.Context, startDate, endDate time.Time) (StatisticsResponse, error) {
	var response StatisticsResponse
	response.TimeRangeStartDate = startDate
	response.TimeRangeEndDate = endDate

	inRange := func(q *gorm.DB) *gorm.DB {
		return q.Where("quotes.created_at >= ? AND quotes.created_at <= ? AND quotes.deleted_at IS NULL", startDate, endDate)
	}

	// Total quoted value across all statuses
	var totalQuoted struct {
		Value int64
	}
	inRange(s.db.WithContext(ctx).Table("quotes")).
		Select("COALESCE(SUM(quotes.total), 0) as value").
		Scan(&totalQuoted)
	response.TotalQuotedValue = totalQuoted.Value

	// Approved value only
	var totalApproved struct {
		Value int64
	}
	inRange(s.db.WithContext(ctx).Table("quotes")).
		Select("COALESCE(SUM(quotes.total), 0) as value").
		Where("quotes.status = ?", model.QuoteStatusApproved).
		Scan(&totalApproved)
	response.TotalApprovedValue = totalApproved.Value

	// Breakdown per status
	var byStatus []StatusBreakdown
	inRange(s.db.WithContext(ctx).Table("quotes")).
		Select("quotes.status as status, COUNT(*) as count, COALESCE(SUM(quotes.total), 0) as total_value").
		Group("quotes.status").
		Order("quotes.status ASC").
		Scan(&byStatus)
	response.ByStatus = byStatus

	// Approval rate over decided quotes
	var decided, approved int64
	for _, b := range byStatus {
		switch b.Status {
		case model.QuoteStatusApproved:
			approved = b.Count
			decided += b.Count
		case model.QuoteStatusRejected:
			decided += b.Count
		}
	}
	if decided > 0 {
		response.ApprovalRate = float64(approved) / float64(decided)
	}

	// Monthly buckets
	var byMonth []MonthlyQuotedValue
	inRange(s.db.WithContext(ctx).Table("quotes")).
		Select("TO_CHAR(quotes.created_at, 'YYYY-MM') as month, COUNT(*) as count, COALESCE(SUM(quotes.total), 0) as total_value").
		Group("TO_CHAR(quotes.created_at, 'YYYY-MM')").
		Order("month ASC").
		Scan(&byMonth)
	response.ByMonth = byMonth

	// Clients with the highest quoted value
	var topClients []ClientRanking
	inRange(s.db.WithContext(ctx).Table("quotes")).
		Select("clients.id as client_id, clients.name as client_name, COUNT(*) as quote_count, COALESCE(SUM(quotes.total), 0) as total_value").
		Joins("JOIN clients ON clients.id = quotes.client_id").
		Group("clients.id, clients.name").
		Order("total_value DESC").
		Limit(5).
		Scan(&topClients)
	response.TopClients = topClients

	return response, nil
}
