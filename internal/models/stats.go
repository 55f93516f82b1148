package models

// DashboardStats is the derived overview shown on the admin dashboard. The
// same shape is produced whether it came from the dedicated stats endpoint or
// was recomputed from the entity lists.
type DashboardStats struct {
	TotalUsers     int `json:"totalUsers"`
	TotalGadgets   int `json:"totalGadgets"`
	TotalReviews   int `json:"totalReviews"`
	PendingReviews int `json:"pendingReviews"`
}

// ComputeStats derives dashboard stats from in-memory entity lists. Pending
// counts only reviews whose status the API actually reported as Pending.
func ComputeStats(users []User, gadgets []Gadget, reviews []Review) DashboardStats {
	pending := 0
	for _, r := range reviews {
		if r.Status == ReviewStatusPending {
			pending++
		}
	}
	return DashboardStats{
		TotalUsers:     len(users),
		TotalGadgets:   len(gadgets),
		TotalReviews:   len(reviews),
		PendingReviews: pending,
	}
}
