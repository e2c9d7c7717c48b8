package handlers

import (
	"log"
	"net/http"

	"github.com/andrewpaige1/flashgen-api/utils"
)

// GET /sets/{name}/cards
//
// An unknown name yields an empty list rather than 404: cards and index are
// read independently.
func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := utils.GetOwnerID(r)
	name := r.PathValue("name")

	cards, err := h.Store.ListCards(r.Context(), ownerID, name)
	if err != nil {
		log.Printf("ListCards: set %q for owner=%s: %v", name, ownerID, err)
		writeErr(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, cards)
}
