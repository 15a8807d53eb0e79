package routes

import (
	"github.com/Alexis12119/chat-profanity-detector/internal/handlers"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes(r *chi.Mux) {
	// Realtime chat API (MongoDB history + Redis Pub/Sub)
	r.Get("/api/chat/history", handlers.GetChatHistory)

	// WebSocket endpoint for realtime chat (the moderation gateway)
	r.Get("/ws/chat", handlers.ChatWebSocket)

	// Moderation status routes (user-facing)
	r.Get("/api/moderation/status", handlers.GetPunishmentStatus)
	r.Get("/api/moderation/warnings", handlers.GetWarnings)
	r.Post("/api/moderation/warnings/{warningID}/acknowledge", handlers.AcknowledgeWarning)
	r.Post("/api/moderation/warnings/acknowledge-all", handlers.AcknowledgeAllWarnings)
	r.Post("/api/moderation/appeals", handlers.AppealPunishment)

	// Admin auth routes (signup disabled - admin accounts are created
	// directly in the database)
	r.Post("/api/admin/signin", handlers.AdminSignin)
	r.Post("/api/admin/signout", handlers.AdminSignout)

	// Admin moderation routes
	r.Get("/api/admin/violations", handlers.ListViolations)
	r.Get("/api/admin/punishments", handlers.ListPunishments)
	r.Get("/api/admin/activity", handlers.ListActivity)
	r.Get("/api/admin/users/{userID}/punishments", handlers.GetUserPunishments)
	r.Get("/api/admin/users/{userID}/ban-consistency", handlers.CheckBanConsistency)
	r.Post("/api/admin/punishments/{punishmentID}/revoke", handlers.RevokePunishment)
	r.Put("/api/admin/unblock-ip", handlers.UnblockIP)
}
