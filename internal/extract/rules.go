package extract

import "github.com/user/review-harvester/internal/entity"

// Kind selects how a field's raw text is parsed.
type Kind int

const (
	Text Kind = iota
	Integer
)

// Match selects how many sub-matches a field reads.
type Match int

const (
	First Match = iota
	All
)

// FieldRule maps one output field to a query inside a record's container.
type FieldRule struct {
	Name string
	// Selector is relative to the container. Empty selects the container itself.
	Selector string
	// Attr reads an attribute instead of the node text.
	Attr     string
	Kind     Kind
	Match    Match
	Required bool
	// Min and Max bound Integer fields inclusively. Both zero means unbounded.
	Min, Max int
}

// Rules is the declarative description of one record type.
type Rules struct {
	// Container matches one node per record.
	Container string
	Fields    []FieldRule
}

// Field names shared by the rule tables and the typed mappers.
const (
	FieldID      = "id"
	FieldTitle   = "title"
	FieldYear    = "year"
	FieldImage   = "image"
	FieldRating  = "rating"
	FieldComment = "comment"
)

// CatalogRules describes one film of the listing page.
var CatalogRules = Rules{
	Container: "div.movie-card[data-movie-id]",
	Fields: []FieldRule{
		{Name: FieldID, Attr: "data-movie-id", Kind: Integer, Required: true, Min: 1},
		{Name: FieldTitle, Selector: ".mc-title a", Kind: Text, Required: true},
		{Name: FieldYear, Selector: ".mc-year", Kind: Integer, Required: true},
		{Name: FieldImage, Selector: ".mc-poster img", Attr: "src", Kind: Text},
	},
}

// ReviewRules describes one user review of a review page.
var ReviewRules = Rules{
	Container: "div.movie-review-wrapper",
	Fields: []FieldRule{
		{Name: FieldRating, Selector: ".user-reviews-movie-rating", Kind: Integer, Min: entity.MinRating, Max: entity.MaxRating},
		{Name: FieldComment, Selector: ".review-text1", Kind: Text},
	},
}

// PagerSelector matches the entries of a review page's pagination control, in order.
const PagerSelector = "div.pager > a, div.pager > span"
