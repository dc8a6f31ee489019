package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/navdesk/internal/httpserver/deps"
)

// Registrar adds a group of routes. Each routes file registers its own from init.
type Registrar func(r chi.Router, d deps.Deps)

var registry []Registrar

func Register(reg Registrar) {
	registry = append(registry, reg)
}

// RegisterAll is called once per router from server.New.
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, reg := range registry {
		reg(r, d)
	}
}
