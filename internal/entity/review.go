package entity

import "strconv"

// Rating bounds of the source's scoring scale.
const (
	MinRating = 1
	MaxRating = 10
)

// Review is one user review. Either field may be absent; a review with both
// absent is still a review.
type Review struct {
	Rating  *int
	Comment *string
}

// RatingText renders the rating for tabular output, empty when absent.
func (r Review) RatingText() string {
	if r.Rating == nil {
		return ""
	}
	return strconv.Itoa(*r.Rating)
}

// CommentText returns the comment, empty when absent.
func (r Review) CommentText() string {
	if r.Comment == nil {
		return ""
	}
	return *r.Comment
}
