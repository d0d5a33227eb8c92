package domain

import "time"

// ReactionType is a user's single reaction to a review
type ReactionType string

const (
	ReactionLike    ReactionType = "LIKE"
	ReactionDislike ReactionType = "DISLIKE"
)

// Review is a product comment with threaded replies. Likes and Dislikes
// are mutated only through the reaction toggle operation; the reaction
// rows are the source of truth the counters must stay consistent with.
type Review struct {
	ReviewID       int64     `json:"review_id"`
	ProductID      string    `json:"product_id"`
	UserID         string    `json:"user_id"`
	UserName       string    `json:"user_name"`
	Comment        string    `json:"comment"`
	Rating         int       `json:"rating"`
	Likes          int       `json:"likes"`
	Dislikes       int       `json:"dislikes"`
	ParentReviewID int64     `json:"parent_review_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// IsReply reports whether the review is a threaded reply
func (r Review) IsReply() bool {
	return r.ParentReviewID != 0
}

// ReviewReaction records one user's reaction to one review.
// At most one row exists per (ReviewID, UserID).
type ReviewReaction struct {
	ReviewID  int64        `json:"review_id"`
	UserID    string       `json:"user_id"`
	UserName  string       `json:"user_name"`
	Type      ReactionType `json:"type"`
	ReactedAt time.Time    `json:"reacted_at"`
}
