// Package httpserver exposes the studio service over HTTP for the booking
// frontend. Sessions arrive as signed cookies from the external identity
// provider; the admin surface is gated on the stored account role, never on
// anything the client sends.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/tyemirov/tauth/pkg/sessionvalidator"
	"go.uber.org/zap"

	"github.com/verticali/booking/pkg/studio"
)

const claimsContextKey = "auth_claims"

// Run boots the HTTP façade over the supplied service and blocks until the
// context is cancelled or the listener fails.
func Run(ctx context.Context, cfg Config, service *studio.Service, logger *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sessionValidator, err := sessionvalidator.New(sessionvalidator.Config{
		SigningKey: []byte(cfg.SessionSigningKey),
		Issuer:     cfg.SessionIssuer,
		CookieName: cfg.SessionCookieName,
	})
	if err != nil {
		return fmt.Errorf("session validator: %w", err)
	}

	handler := &httpHandler{
		logger:  logger,
		service: service,
	}
	router := setupRouter(cfg, handler, sessionValidator)

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("studio api listening", zap.String("addr", cfg.ListenAddr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.Warn("server shutdown error", zap.Error(shutdownErr))
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func setupRouter(cfg Config, handler *httpHandler, validator *sessionvalidator.Validator) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Origin", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.Use(validator.GinMiddleware(claimsContextKey))

	api.GET("/session", handler.handleSession)
	api.GET("/locations", handler.handleListLocations)
	api.GET("/classes", handler.handleListCatalog)
	api.GET("/classes/:classId", handler.handleGetClass)
	api.POST("/classes/:classId/bookings", handler.handleBook)
	api.DELETE("/classes/:classId/bookings", handler.handleCancel)
	api.GET("/me", handler.handleMe)
	api.PUT("/me/profile", handler.handleUpdateProfile)
	api.GET("/me/bookings", handler.handleMyBookings)
	api.GET("/bookings/:bookingId/receipt", handler.handleReceipt)

	admin := api.Group("/admin")
	admin.Use(handler.requireAdmin)

	admin.POST("/classes", handler.handleCreateClass)
	admin.PUT("/classes/:classId", handler.handleUpdateClass)
	admin.DELETE("/classes/:classId", handler.handleDeleteClass)
	admin.POST("/classes/:classId/archive", handler.handleArchiveClass)
	admin.GET("/classes/:classId/attendees", handler.handleListAttendees)
	admin.POST("/classes/:classId/attendees", handler.handleAddManualAttendee)
	admin.DELETE("/classes/:classId/attendees/:userId", handler.handleRemoveAttendee)
	admin.GET("/classes/:classId/reconcile", handler.handleReconcile)
	admin.POST("/bookings/:bookingId/toggle-payment", handler.handleTogglePayment)
	admin.GET("/users", handler.handleListUsers)
	admin.POST("/users/:userId/credits", handler.handleAdjustCredits)
	admin.GET("/clients", handler.handleListProClients)
	admin.POST("/clients", handler.handleCreateProClient)
	admin.GET("/invoices", handler.handleListB2BInvoices)
	admin.POST("/invoices", handler.handleCreateB2BQuote)
	admin.POST("/invoices/:invoiceId/finalize", handler.handleFinalizeB2BInvoice)
	admin.POST("/invoices/:invoiceId/toggle-payment", handler.handleToggleB2BPayment)
	admin.GET("/invoices/:invoiceId/document", handler.handleB2BDocument)

	return router
}

func getClaims(ctx *gin.Context) *sessionvalidator.Claims {
	claimsValue, ok := ctx.Get(claimsContextKey)
	if !ok {
		return nil
	}
	claims, _ := claimsValue.(*sessionvalidator.Claims)
	return claims
}
