package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ftcaleb/marketing-kasiverse/internal/middleware"
	"github.com/ftcaleb/marketing-kasiverse/internal/models"
	"github.com/ftcaleb/marketing-kasiverse/internal/repository"
	"github.com/ftcaleb/marketing-kasiverse/internal/utils"
)

// NoteHTTP wires the notes CRUD endpoints to the note repository. Every
// request reaching these handlers has already passed the identity gate;
// update/delete additionally sit behind the admin gate.
type NoteHTTP struct {
	notes repository.NoteRepository
	log   zerolog.Logger
}

func NewNoteHTTP(notes repository.NoteRepository, log zerolog.Logger) *NoteHTTP {
	return &NoteHTTP{notes: notes, log: log}
}

// -----------------------------------------------------------------------------
// GET /notes
// -----------------------------------------------------------------------------
func (h *NoteHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		notes, err := h.notes.List(r.Context())
		if err != nil {
			h.storageError(w, err, "list notes")
			return
		}
		if notes == nil {
			notes = []models.Note{}
		}
		utils.JSON(w, http.StatusOK, notes)
	}
}

// -----------------------------------------------------------------------------
// POST /notes
// -----------------------------------------------------------------------------
func (h *NoteHTTP) Create() http.HandlerFunc {
	type inDTO struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Location    string   `json:"location"`
		Price       *float64 `json:"price"`
		Category    *string  `json:"category"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		in.Title = strings.TrimSpace(in.Title)
		in.Description = strings.TrimSpace(in.Description)
		in.Location = strings.TrimSpace(in.Location)
		if in.Title == "" || in.Description == "" || in.Location == "" {
			utils.Error(w, http.StatusBadRequest, "Missing required fields")
			return
		}

		caller, ok := middleware.PrincipalFrom(r.Context())
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "No token")
			return
		}

		// user_id always comes from the principal, never the body.
		created, err := h.notes.Create(r.Context(), &models.Note{
			UserID:      caller.ID,
			Title:       in.Title,
			Description: in.Description,
			Location:    in.Location,
			Price:       in.Price,
			Category:    in.Category,
		})
		if err != nil {
			h.storageError(w, err, "create note")
			return
		}
		utils.JSON(w, http.StatusCreated, created)
	}
}

// -----------------------------------------------------------------------------
// GET /notes/{id}
// -----------------------------------------------------------------------------
func (h *NoteHTTP) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		n, err := h.notes.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, repository.ErrNoteNotFound) {
				utils.Error(w, http.StatusNotFound, "Note not found")
				return
			}
			h.storageError(w, err, "get note")
			return
		}
		utils.JSON(w, http.StatusOK, n)
	}
}

// -----------------------------------------------------------------------------
// PUT /notes/{id}  (admin only, partial update)
// -----------------------------------------------------------------------------
func (h *NoteHTTP) Update() http.HandlerFunc {
	type inDTO struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Location    *string `json:"location"`
		// RawMessage distinguishes an absent key from an explicit null:
		// absent leaves the column alone, null clears it.
		Price    json.RawMessage `json:"price"`
		Category json.RawMessage `json:"category"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		// Existence check first so a stale id reads as 404, not as a
		// zero-row update.
		if _, err := h.notes.Get(r.Context(), id); err != nil {
			if errors.Is(err, repository.ErrNoteNotFound) {
				utils.Error(w, http.StatusNotFound, "Note not found")
				return
			}
			h.storageError(w, err, "update note")
			return
		}

		var patch repository.NotePatch
		patch.Title = trimmed(in.Title)
		patch.Description = trimmed(in.Description)
		patch.Location = trimmed(in.Location)
		if len(in.Price) > 0 {
			patch.PriceSet = true
			if !isJSONNull(in.Price) {
				var p float64
				if err := json.Unmarshal(in.Price, &p); err != nil {
					utils.Error(w, http.StatusBadRequest, "price must be a number")
					return
				}
				patch.Price = &p
			}
		}
		if len(in.Category) > 0 {
			patch.CategorySet = true
			if !isJSONNull(in.Category) {
				var c string
				if err := json.Unmarshal(in.Category, &c); err != nil {
					utils.Error(w, http.StatusBadRequest, "category must be a string")
					return
				}
				patch.Category = &c
			}
		}

		updated, err := h.notes.Update(r.Context(), id, patch)
		if err != nil {
			if errors.Is(err, repository.ErrNoteNotFound) {
				// Raced with a concurrent delete.
				utils.Error(w, http.StatusNotFound, "Note not found")
				return
			}
			h.storageError(w, err, "update note")
			return
		}
		utils.JSON(w, http.StatusOK, updated)
	}
}

// -----------------------------------------------------------------------------
// DELETE /notes/{id}  (admin only)
// -----------------------------------------------------------------------------
func (h *NoteHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if _, err := h.notes.Get(r.Context(), id); err != nil {
			if errors.Is(err, repository.ErrNoteNotFound) {
				utils.Error(w, http.StatusNotFound, "Note not found")
				return
			}
			h.storageError(w, err, "delete note")
			return
		}

		if err := h.notes.Delete(r.Context(), id); err != nil {
			if errors.Is(err, repository.ErrNoteNotFound) {
				utils.Error(w, http.StatusNotFound, "Note not found")
				return
			}
			h.storageError(w, err, "delete note")
			return
		}
		utils.JSON(w, http.StatusOK, map[string]string{"message": "Note deleted successfully"})
	}
}

// storageError maps a repository failure onto the wire taxonomy: provider
// validation messages surface as 400, everything else is logged and returned
// as an opaque 500.
func (h *NoteHTTP) storageError(w http.ResponseWriter, err error, op string) {
	var verr *repository.ValidationError
	if errors.As(err, &verr) {
		utils.Error(w, http.StatusBadRequest, verr.Message)
		return
	}
	h.log.Error().Err(err).Str("op", op).Msg("storage error")
	utils.Error(w, http.StatusInternalServerError, "Internal server error")
}

// trimmed returns a pointer to the trimmed value, or nil when the field was
// absent or blank. Blank strings never overwrite required columns.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func isJSONNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}
