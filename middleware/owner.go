package middleware

import (
	"net/http"

	"github.com/andrewpaige1/flashgen-api/utils"
)

// RequireOwner rejects requests that carry no validated token subject.
func RequireOwner(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := utils.GetOwnerID(r); !ok {
			utils.WriteError(w, http.StatusUnauthorized, "You must be logged in to manage flashcards.")
			return
		}
		next.ServeHTTP(w, r)
	}
}
