package controllers

import (
	"net/http"

	"github.com/angelmondragon/kasir-pos/api/middleware"
	"github.com/angelmondragon/kasir-pos/api/responses"
)

func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"scope": "public", "status": "ok"})
	}
}

func PrivatePing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]string{"scope": "private", "status": "ok"}
		if s := middleware.SessionFromContext(r.Context()); s != nil {
			payload["role"] = s.Role.String()
		}
		responses.WriteSuccess(w, payload)
	}
}
