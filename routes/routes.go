package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/arcadia-soft/gamestore-api/notify"
	"github.com/arcadia-soft/gamestore-api/session"
)

// SetupRoutes is the single entry-point that wires up all route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, carts *session.Store, notifier notify.Notifier) {
	// Public auth routes (no middleware)
	SetupAuthRoutes(r, db)

	// Catalog browsing + reviews
	SetupGameRoutes(r, db)

	// Session cart (JWT or X-Session-ID)
	SetupCartRoutes(r, db, carts)

	// Checkout + order queries (JWT-protected)
	SetupOrderRoutes(r, db, carts)

	// Payment initiation and confirmation
	SetupPaymentRoutes(r, db, notifier)

	// Manager-only reports and catalog management
	SetupAdminRoutes(r, db)
}
