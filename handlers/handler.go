package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/andrewpaige1/flashgen-api/errs"
	"github.com/andrewpaige1/flashgen-api/middleware"
	"github.com/andrewpaige1/flashgen-api/models"
	"github.com/andrewpaige1/flashgen-api/utils"
)

type CardGenerator interface {
	Generate(ctx context.Context, text string) ([]models.Card, error)
}

type SetStore interface {
	Save(ctx context.Context, ownerID, name string, cards []models.Card) error
	ListSetSummaries(ctx context.Context, ownerID string) ([]models.SetSummary, error)
	ListCards(ctx context.Context, ownerID, name string) ([]models.Card, error)
	Ping(ctx context.Context) error
}

type Handler struct {
	Store     SetStore
	Generator CardGenerator
}

// Routes registers every endpoint. Token validation is applied by the caller
// around the returned mux; the /sets routes additionally require an owner.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /generate", h.Generate)

	mux.HandleFunc("POST /sets", middleware.RequireOwner(h.SaveSet))
	mux.HandleFunc("GET /sets", middleware.RequireOwner(h.ListSets))
	mux.HandleFunc("GET /sets/{name}/cards", middleware.RequireOwner(h.ListCards))

	mux.HandleFunc("GET /healthz", h.Health)
	return mux
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrDuplicateName):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeErr(w http.ResponseWriter, err error) {
	utils.WriteError(w, statusFor(err), errs.Message(err))
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return dec.Decode(v)
}

const maxBodyBytes = 1 << 20
