package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/user/review-harvester/internal/entity"
	"github.com/user/review-harvester/pkg/utils"
)

// Films maps the listing page to catalog entries, in listing order.
// Relative image references are resolved against base when it is not nil.
// Pages is left at zero; the harvest fills it in.
func Films(root *goquery.Selection, rules Rules, base *url.URL) ([]entity.Film, []error) {
	records, failures := Extract(root, rules)

	films := make([]entity.Film, 0, len(records))
	for _, r := range records {
		film := entity.Film{}
		film.ID, _ = r.Int(FieldID)
		film.Title, _ = r.Text(FieldTitle)
		film.Year, _ = r.Int(FieldYear)

		if image, ok := r.Text(FieldImage); ok {
			film.Image = image
			if base != nil {
				if abs, err := utils.ToAbsoluteURL(base, image); err == nil {
					film.Image = abs
				}
			}
		}
		films = append(films, film)
	}
	return films, failures
}

// Reviews maps a review page to reviews, one per container, in document order.
func Reviews(root *goquery.Selection, rules Rules) []entity.Review {
	records, _ := Extract(root, rules)

	reviews := make([]entity.Review, 0, len(records))
	for _, r := range records {
		var review entity.Review
		if rating, ok := r.Int(FieldRating); ok {
			review.Rating = &rating
		}
		if comment, ok := r.Text(FieldComment); ok {
			review.Comment = &comment
		}
		reviews = append(reviews, review)
	}
	return reviews
}

// PagerEntries returns the trimmed text of every pagination entry, in order.
func PagerEntries(root *goquery.Selection, selector string) []string {
	var entries []string
	root.Find(selector).Each(func(_ int, s *goquery.Selection) {
		entries = append(entries, strings.TrimSpace(s.Text()))
	})
	return entries
}
