// Package render writes JSON responses in the shapes every handler shares.
package render

import (
	"encoding/json"
	"net/http"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes {"error": msg}.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"error": msg})
}

// ValidationErrors is the 400 body for rejected payloads.
type ValidationErrors struct {
	Messages []string `json:"messages"`
}

func Messages(w http.ResponseWriter, msgs []string) {
	JSON(w, http.StatusBadRequest, ValidationErrors{Messages: msgs})
}
