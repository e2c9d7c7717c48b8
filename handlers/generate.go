package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/andrewpaige1/flashgen-api/errs"
	"github.com/andrewpaige1/flashgen-api/utils"
)

const textRequired = "Text is required to generate flashcards"

// POST /generate
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		log.Printf("Generate: Invalid request body: %v", err)
		utils.WriteError(w, http.StatusBadRequest, textRequired)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		utils.WriteError(w, http.StatusBadRequest, textRequired)
		return
	}

	cards, err := h.Generator.Generate(r.Context(), req.Text)
	if err != nil {
		log.Printf("Generate: %v", err)
		status := http.StatusInternalServerError
		if errors.Is(err, errs.ErrValidation) {
			status = http.StatusBadRequest
		}
		utils.WriteError(w, status, errs.Message(err))
		return
	}

	utils.WriteJSON(w, http.StatusOK, cards)
}
