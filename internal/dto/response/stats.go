package response

type TenantOverviewResponse struct {
	BookingsByStatus map[string]int64 `json:"bookings_by_status"`
	TotalBookings    int64            `json:"total_bookings"`
	PaidBookings     int64            `json:"paid_bookings"`
	Revenue          string           `json:"revenue"`
	Commission       string           `json:"commission"`
}

type ProviderDashboardResponse struct {
	BookingsByStatus map[string]int64 `json:"bookings_by_status"`
	TotalBookings    int              `json:"total_bookings"`
	Rating           string           `json:"rating"`
	TotalReviews     int              `json:"total_reviews"`
	GrossVolume      string           `json:"gross_volume"`
	NetEarnings      string           `json:"net_earnings"`
}
