package models

import "time"

// CategoryProblem marks a note as a problem post. Any other category, or
// none, makes it a store/service listing.
const CategoryProblem = "Problem"

// Note is the single marketplace resource: a problem post or a store
// listing, disambiguated by Category. UserID is set once at creation from
// the authenticated caller and never changes.
type Note struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Price       *float64  `json:"price"`
	Category    *string   `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}

func (n Note) IsProblem() bool {
	return n.Category != nil && *n.Category == CategoryProblem
}
