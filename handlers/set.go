package handlers

import (
	"log"
	"net/http"

	"github.com/andrewpaige1/flashgen-api/models"
	"github.com/andrewpaige1/flashgen-api/utils"
)

// POST /sets
func (h *Handler) SaveSet(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := utils.GetOwnerID(r)

	var req struct {
		Name  string        `json:"name"`
		Cards []models.Card `json:"cards"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		log.Printf("SaveSet: Invalid request body: %v", err)
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Store.Save(r.Context(), ownerID, req.Name, req.Cards); err != nil {
		log.Printf("SaveSet: failed to save set %q for owner=%s: %v", req.Name, ownerID, err)
		writeErr(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]string{"name": req.Name})
}

// GET /sets
func (h *Handler) ListSets(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := utils.GetOwnerID(r)

	sets, err := h.Store.ListSetSummaries(r.Context(), ownerID)
	if err != nil {
		log.Printf("ListSets: owner=%s: %v", ownerID, err)
		writeErr(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, sets)
}
