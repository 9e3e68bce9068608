package handler

import (
	"complainthub/backend/internal/complaint"
	"complainthub/backend/internal/notifyhub"
)

// Handler bundles the dependencies of the HTTP surface.
type Handler struct {
	Hub     *notifyhub.Hub
	Service *complaint.Service
}

func NewHandler(hub *notifyhub.Hub, service *complaint.Service) *Handler {
	return &Handler{Hub: hub, Service: service}
}
