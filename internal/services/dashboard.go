package services

import (
	"fmt"
	"strconv"

	"github.com/diewo77/clientpath/internal/storage"
)

// Card is one headline figure on the dashboard.
type Card struct {
	Title     string  `json:"title"`
	Value     float64 `json:"value"`
	Icon      string  `json:"icon"`
	IconBg    string  `json:"iconBg"`
	IconColor string  `json:"iconColor"`
	Subtitle  string  `json:"subtitle,omitempty"`
}

const cardIconColor = "text-black"

type DashboardService struct{}

func NewDashboardService() *DashboardService {
	return &DashboardService{}
}

// Cards formats the stats as Total Clients, Total Revenue, Pending Invoices
// and Scheduled Meetings, in that order.
func (s *DashboardService) Cards(stats storage.DashboardStats) []Card {
	return []Card{
		{
			Title:     "Total Clients",
			Value:     float64(stats.ClientCount),
			Icon:      "ri-user-line",
			IconColor: cardIconColor,
		},
		{
			Title:     "Total Revenue",
			Value:     stats.TotalRevenue,
			Icon:      "ri-money-dollar-circle-line",
			IconColor: cardIconColor,
		},
		{
			Title:     "Pending Invoices",
			Value:     float64(stats.PendingInvoiceCount),
			Icon:      "ri-file-list-line",
			IconColor: cardIconColor,
			Subtitle:  "$" + formatAmount(stats.OutstandingAmount) + " outstanding",
		},
		{
			Title:     "Scheduled Meetings",
			Value:     float64(stats.UpcomingMeetingCount),
			Icon:      "ri-calendar-2-line",
			IconColor: cardIconColor,
			Subtitle:  fmt.Sprintf("%d upcoming today", stats.MeetingsToday),
		},
	}
}

// formatAmount prints v with as many decimals as it needs: 850, 1250.5.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
