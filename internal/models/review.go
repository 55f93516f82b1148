package models

import "time"

// Review moderation statuses as reported by the API.
const (
	ReviewStatusPending  = "Pending"
	ReviewStatusApproved = "Approved"
	ReviewStatusRejected = "Rejected"
)

// Review represents a user review as returned by the WiseTech API.
type Review struct {
	ID        int       `json:"id"`
	GadgetID  int       `json:"gadget_id"`
	UserID    int       `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Rating    int       `json:"rating"`
	Pros      *string   `json:"pros,omitempty"`
	Cons      *string   `json:"cons,omitempty"`
	Status    string    `json:"status,omitempty"`
	UserName  string    `json:"user_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Display fields merged in by the admin list retrieval.
	GadgetName string `json:"gadget_name,omitempty"`
}

// ReviewInput is the create/update payload. Pros and cons are transmitted as
// null when blank, never as empty strings.
type ReviewInput struct {
	GadgetID int     `json:"gadget_id,omitempty"`
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	Rating   int     `json:"rating"`
	Pros     *string `json:"pros"`
	Cons     *string `json:"cons"`
	Status   string  `json:"status,omitempty"`
}

// Normalize prepares the payload for transmission: the rating is clamped to
// 1..5 and blank pros/cons are nilled out so the wire carries null, never an
// empty string.
func (in *ReviewInput) Normalize() {
	in.Rating = ClampRating(in.Rating)
	if in.Pros != nil {
		in.Pros = OptionalText(*in.Pros)
	}
	if in.Cons != nil {
		in.Cons = OptionalText(*in.Cons)
	}
}

// ClampRating forces a rating into the 1..5 range the UI offers.
func ClampRating(r int) int {
	if r < 1 {
		return 1
	}
	if r > 5 {
		return 5
	}
	return r
}

// OptionalText returns nil for blank input so the wire carries null, matching
// the API's treatment of omitted pros/cons.
func OptionalText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ReviewFilter holds the optional query parameters for review listing.
type ReviewFilter struct {
	Page     int
	Limit    int
	Search   string
	Rating   int
	Category string
	Sort     string
}
