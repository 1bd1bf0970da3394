package repository

import (
	"context"

	"github.com/ftcaleb/marketing-kasiverse/internal/models"
)

// IdentityProvider is the auth side of the resource provider. The API never
// stores credentials or sessions itself; it forwards them here and treats
// the provider as a black box.
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password, name string) (*models.User, error)
	// SignInWithPassword returns the user and the bearer token the client
	// must present on subsequent requests.
	SignInWithPassword(ctx context.Context, email, password string) (*models.User, string, error)
	// GetUser introspects a bearer token. Returns ErrInvalidToken when the
	// provider rejects it.
	GetUser(ctx context.Context, token string) (*models.User, error)
}

// NoteRepository is the storage side of the resource provider. Each call is
// a single atomic operation; there are no cross-call transactions.
type NoteRepository interface {
	// List returns all notes ordered by created_at descending.
	List(ctx context.Context) ([]models.Note, error)
	// Get returns ErrNoteNotFound when no row has the given id.
	Get(ctx context.Context, id string) (*models.Note, error)
	// Create inserts the note and returns the stored row with id and
	// created_at filled in by storage.
	Create(ctx context.Context, n *models.Note) (*models.Note, error)
	// Update applies a partial patch and returns the updated row.
	Update(ctx context.Context, id string, patch NotePatch) (*models.Note, error)
	Delete(ctx context.Context, id string) error
}

// NotePatch is a partial update. Nil string fields are left untouched.
// Price and Category are tri-state: untouched unless the Set flag is true,
// in which case a nil pointer clears the column.
type NotePatch struct {
	Title       *string
	Description *string
	Location    *string
	Price       *float64
	PriceSet    bool
	Category    *string
	CategorySet bool
}

// Empty reports whether the patch changes nothing.
func (p NotePatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Location == nil &&
		!p.PriceSet && !p.CategorySet
}
