package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/verticali/booking/internal/invoice"
	"github.com/verticali/booking/pkg/studio"
)

type httpHandler struct {
	logger  *zap.Logger
	service *studio.Service
}

// requireAdmin gates the admin surface on the stored account role. The
// session proves identity only; authorization always comes from the store.
func (handler *httpHandler) requireAdmin(ctx *gin.Context) {
	userID, ok := handler.sessionUserID(ctx)
	if !ok {
		return
	}
	account, err := handler.service.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusForbidden, errorResponse("forbidden", "admin role required"))
		return
	}
	if account.Role != studio.RoleAdmin {
		ctx.AbortWithStatusJSON(http.StatusForbidden, errorResponse("forbidden", "admin role required"))
		return
	}
	ctx.Next()
}

func (handler *httpHandler) sessionUserID(ctx *gin.Context) (studio.UserID, bool) {
	claims := getClaims(ctx)
	if claims == nil {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse("unauthorized", "missing session"))
		return studio.UserID{}, false
	}
	userID, err := studio.NewUserID(claims.GetUserID())
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse("unauthorized", "invalid session subject"))
		return studio.UserID{}, false
	}
	return userID, true
}

// handleSession upserts the account on first sign-in and returns it with
// the session identity.
func (handler *httpHandler) handleSession(ctx *gin.Context) {
	claims := getClaims(ctx)
	userID, ok := handler.sessionUserID(ctx)
	if !ok {
		return
	}
	account, err := handler.service.RegisterUser(ctx.Request.Context(), userID, claims.GetUserEmail(), claims.GetUserDisplayName())
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"user":    userPayloadFrom(account),
		"expires": claims.GetExpiresAt().Unix(),
	})
}

func (handler *httpHandler) handleListLocations(ctx *gin.Context) {
	locations := studio.DefaultLocations()
	payloads := make([]gin.H, 0, len(locations))
	for _, location := range locations {
		payloads = append(payloads, gin.H{
			"name":    location.Name,
			"address": location.Address,
		})
	}
	ctx.JSON(http.StatusOK, gin.H{"locations": payloads})
}

func (handler *httpHandler) handleListCatalog(ctx *gin.Context) {
	catalog, err := handler.service.ListCatalog(ctx.Request.Context())
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"upcoming": classPayloadsFrom(catalog.Upcoming),
		"past":     classPayloadsFrom(catalog.Past),
	})
}

func (handler *httpHandler) handleGetClass(ctx *gin.Context) {
	classID, err := studio.NewClassID(ctx.Param("classId"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	class, err := handler.service.GetClass(ctx.Request.Context(), classID)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"class": classPayloadFrom(class)})
}

type bookRequest struct {
	Method string `json:"method"`
}

func (handler *httpHandler) handleBook(ctx *gin.Context) {
	userID, ok := handler.sessionUserID(ctx)
	if !ok {
		return
	}
	classID, err := studio.NewClassID(ctx.Param("classId"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	var request bookRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
		return
	}
	method, err := studio.ParsePaymentMethod(request.Method)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	booking, err := handler.service.AttemptBooking(ctx.Request.Context(), userID, classID, method)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"booking": bookingPayloadFrom(booking)})
}

func (handler *httpHandler) handleCancel(ctx *gin.Context) {
	userID, ok := handler.sessionUserID(ctx)
	if !ok {
		return
	}
	classID, err := studio.NewClassID(ctx.Param("classId"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	if err := handler.service.CancelBooking(ctx.Request.Context(), userID, classID); err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

func (handler *httpHandler) handleMe(ctx *gin.Context) {
	userID, ok := handler.sessionUserID(ctx)
	if !ok {
		return
	}
	account, err := handler.service.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"user": userPayloadFrom(account)})
}

type profileRequest struct {
	Street           string `json:"street"`
	ZipCode          string `json:"zipCode"`
	City             string `json:"city"`
	Phone            string `json:"phone"`
	EmergencyContact string `json:"emergencyContact"`
	EmergencyPhone   string `json:"emergencyPhone"`
}

func (handler *httpHandler) handleUpdateProfile(ctx *gin.Context) {
	userID, ok := handler.sessionUserID(ctx)
	if !ok {
		return
	}
	var request profileRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
		return
	}
	account, err := handler.service.UpdateProfile(ctx.Request.Context(), userID, studio.Profile{
		Street:           request.Street,
		ZipCode:          request.ZipCode,
		City:             request.City,
		Phone:            request.Phone,
		EmergencyContact: request.EmergencyContact,
		EmergencyPhone:   request.EmergencyPhone,
	})
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"user": userPayloadFrom(account)})
}

func (handler *httpHandler) handleMyBookings(ctx *gin.Context) {
	userID, ok := handler.sessionUserID(ctx)
	if !ok {
		return
	}
	bookings, err := handler.service.ListUserBookings(ctx.Request.Context(), userID)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"bookings": bookingPayloadsFrom(bookings)})
}

// handleReceipt renders a plain-text receipt for one of the caller's own
// bookings.
func (handler *httpHandler) handleReceipt(ctx *gin.Context) {
	userID, ok := handler.sessionUserID(ctx)
	if !ok {
		return
	}
	bookingID, err := studio.NewBookingID(ctx.Param("bookingId"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	booking, err := handler.service.GetBooking(ctx.Request.Context(), bookingID)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	if booking.UserID != userID {
		ctx.JSON(http.StatusNotFound, errorResponse("not_found", "booking not found"))
		return
	}
	ctx.String(http.StatusOK, invoice.BuildBookingReceipt(booking).Render())
}

type classRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Instructor     string `json:"instructor"`
	Location       string `json:"location"`
	LocationAddr   string `json:"locationAddr"`
	StartAtUnixUTC int64  `json:"startAtUnixUtc"`
	EndAtUnixUTC   int64  `json:"endAtUnixUtc"`
	PriceLabel     string `json:"priceLabel"`
	MaxCapacity    int    `json:"maxCapacity"`
}

func (request classRequest) toInput() studio.ClassInput {
	return studio.ClassInput{
		Title:          request.Title,
		Description:    request.Description,
		Instructor:     request.Instructor,
		Location:       request.Location,
		LocationAddr:   request.LocationAddr,
		StartAtUnixUTC: request.StartAtUnixUTC,
		EndAtUnixUTC:   request.EndAtUnixUTC,
		PriceLabel:     request.PriceLabel,
		MaxCapacity:    request.MaxCapacity,
	}
}

func (handler *httpHandler) handleCreateClass(ctx *gin.Context) {
	var request classRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
		return
	}
	class, err := handler.service.CreateClass(ctx.Request.Context(), request.toInput())
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"class": classPayloadFrom(class)})
}

func (handler *httpHandler) handleUpdateClass(ctx *gin.Context) {
	classID, err := studio.NewClassID(ctx.Param("classId"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	var request classRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
		return
	}
	class, err := handler.service.UpdateClass(ctx.Request.Context(), classID, request.toInput())
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"class": classPayloadFrom(class)})
}

func (handler *httpHandler) handleDeleteClass(ctx *gin.Context) {
	classID, err := studio.NewClassID(ctx.Param("classId"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	if err := handler.service.DeleteClass(ctx.Request.Context(), classID); err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type archiveRequest struct {
	Archived bool `json:"archived"`
}

func (handler *httpHandler) handleArchiveClass(ctx *gin.Context) {
	classID, err := studio.NewClassID(ctx.Param("classId"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	var request archiveRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
		return
	}
	if err := handler.service.ArchiveClass(ctx.Request.Context(), classID, request.Archived); err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (handler *httpHandler) handleListAttendees(ctx *gin.Context) {
	classID, err := studio.NewClassID(ctx.Param("classId"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	bookings, err := handler.service.ListClassAttendees(ctx.Request.Context(), classID)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"attendees": bookingPayloadsFrom(bookings)})
}

type manualAttendeeRequest struct {
	DisplayName string `json:"displayName"`
	Method      string `json:"method"`
}

func (handler *httpHandler) handleAddManualAttendee(ctx *gin.Context) {
	classID, err := studio.NewClassID(ctx.Param("classId"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	var request manualAttendeeRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
		return
	}
	method, err := studio.ParsePaymentMethod(request.Method)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	booking, err := handler.service.AddManualAttendee(ctx.Request.Context(), classID, request.DisplayName, method)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"booking": bookingPayloadFrom(booking)})
}

func (handler *httpHandler) handleRemoveAttendee(ctx *gin.Context) {
	classID, err := studio.NewClassID(ctx.Param("classId"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	attendeeID, err := studio.NewUserID(ctx.Param("userId"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	if err := handler.service.RemoveAttendee(ctx.Request.Context(), classID, attendeeID); err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "removed"})
}

func (handler *httpHandler) handleReconcile(ctx *gin.Context) {
	classID, err := studio.NewClassID(ctx.Param("classId"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	drift, err := handler.service.ReconcileClassAttendance(ctx.Request.Context(), classID)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	missing := make([]string, 0, len(drift.MissingFromIDs))
	for _, id := range drift.MissingFromIDs {
		missing = append(missing, id.String())
	}
	ctx.JSON(http.StatusOK, gin.H{
		"classId":       drift.ClassID.String(),
		"attendeeCount": drift.AttendeeCount,
		"bookingCount":  drift.BookingCount,
		"missingIds":    missing,
		"inSync":        drift.InSync(),
	})
}

func (handler *httpHandler) handleTogglePayment(ctx *gin.Context) {
	bookingID, err := studio.NewBookingID(ctx.Param("bookingId"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	booking, err := handler.service.TogglePaymentStatus(ctx.Request.Context(), bookingID)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"booking": bookingPayloadFrom(booking)})
}

func (handler *httpHandler) handleListUsers(ctx *gin.Context) {
	accounts, err := handler.service.ListUsers(ctx.Request.Context())
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	payloads := make([]userPayload, 0, len(accounts))
	for _, account := range accounts {
		payloads = append(payloads, userPayloadFrom(account))
	}
	ctx.JSON(http.StatusOK, gin.H{"users": payloads})
}

type creditAdjustRequest struct {
	Delta int64 `json:"delta"`
}

func (handler *httpHandler) handleAdjustCredits(ctx *gin.Context) {
	userID, err := studio.NewUserID(ctx.Param("userId"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	var request creditAdjustRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
		return
	}
	credits, err := handler.service.AdjustCredits(ctx.Request.Context(), userID, request.Delta)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"credits": credits.Int64()})
}

type proClientRequest struct {
	CompanyName string `json:"companyName"`
	ContactName string `json:"contactName"`
	Email       string `json:"email"`
	SIRET       string `json:"siret"`
	Address     string `json:"address"`
}

func (handler *httpHandler) handleCreateProClient(ctx *gin.Context) {
	var request proClientRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
		return
	}
	client, err := handler.service.CreateProClient(ctx.Request.Context(), studio.ProClient{
		CompanyName: request.CompanyName,
		ContactName: request.ContactName,
		Email:       request.Email,
		SIRET:       request.SIRET,
		Address:     request.Address,
	})
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"client": proClientPayloadFrom(client)})
}

func (handler *httpHandler) handleListProClients(ctx *gin.Context) {
	clients, err := handler.service.ListProClients(ctx.Request.Context())
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	payloads := make([]proClientPayload, 0, len(clients))
	for _, client := range clients {
		payloads = append(payloads, proClientPayloadFrom(client))
	}
	ctx.JSON(http.StatusOK, gin.H{"clients": payloads})
}

type quoteRequest struct {
	ClientID    string `json:"clientId"`
	Label       string `json:"label"`
	AmountCents int64  `json:"amountCents"`
	Method      string `json:"method"`
}

func (handler *httpHandler) handleCreateB2BQuote(ctx *gin.Context) {
	var request quoteRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
		return
	}
	clientID, err := studio.NewClientID(request.ClientID)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	method, err := studio.ParsePaymentMethod(request.Method)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	quote, err := handler.service.CreateB2BQuote(ctx.Request.Context(), clientID, request.Label, request.AmountCents, method)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"invoice": b2bInvoicePayloadFrom(quote)})
}

func (handler *httpHandler) handleFinalizeB2BInvoice(ctx *gin.Context) {
	invoiceID, err := studio.NewInvoiceID(ctx.Param("invoiceId"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	finalized, err := handler.service.FinalizeB2BInvoice(ctx.Request.Context(), invoiceID)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"invoice": b2bInvoicePayloadFrom(finalized)})
}

func (handler *httpHandler) handleToggleB2BPayment(ctx *gin.Context) {
	invoiceID, err := studio.NewInvoiceID(ctx.Param("invoiceId"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	toggled, err := handler.service.ToggleB2BPaymentStatus(ctx.Request.Context(), invoiceID)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"invoice": b2bInvoicePayloadFrom(toggled)})
}

func (handler *httpHandler) handleListB2BInvoices(ctx *gin.Context) {
	invoices, err := handler.service.ListB2BInvoices(ctx.Request.Context())
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	payloads := make([]b2bInvoicePayload, 0, len(invoices))
	for _, entry := range invoices {
		payloads = append(payloads, b2bInvoicePayloadFrom(entry))
	}
	ctx.JSON(http.StatusOK, gin.H{"invoices": payloads})
}

func (handler *httpHandler) handleB2BDocument(ctx *gin.Context) {
	invoiceID, err := studio.NewInvoiceID(ctx.Param("invoiceId"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	entry, err := handler.service.GetB2BInvoice(ctx.Request.Context(), invoiceID)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	client, err := handler.service.GetProClient(ctx.Request.Context(), entry.ClientID)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.String(http.StatusOK, invoice.BuildB2BDocument(entry, client).Render())
}

// respondError translates domain sentinels onto the HTTP status space.
func (handler *httpHandler) respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, studio.ErrClassNotFound),
		errors.Is(err, studio.ErrUserNotFound),
		errors.Is(err, studio.ErrBookingNotFound),
		errors.Is(err, studio.ErrClientNotFound),
		errors.Is(err, studio.ErrInvoiceNotFound):
		ctx.JSON(http.StatusNotFound, errorResponse("not_found", err.Error()))
	case errors.Is(err, studio.ErrAlreadyBooked),
		errors.Is(err, studio.ErrClassFull),
		errors.Is(err, studio.ErrClassNotEmpty):
		ctx.JSON(http.StatusConflict, errorResponse("conflict", err.Error()))
	case errors.Is(err, studio.ErrInsufficientCredit),
		errors.Is(err, studio.ErrCreditPaymentFinal),
		errors.Is(err, studio.ErrProfileIncomplete),
		errors.Is(err, studio.ErrQuoteFinalized):
		ctx.JSON(http.StatusUnprocessableEntity, errorResponse("rejected", err.Error()))
	case errors.Is(err, studio.ErrTransactionConflict):
		ctx.JSON(http.StatusServiceUnavailable, errorResponse("conflict_retry", err.Error()))
	case errors.Is(err, studio.ErrInvalidUserID),
		errors.Is(err, studio.ErrInvalidClassID),
		errors.Is(err, studio.ErrInvalidBookingID),
		errors.Is(err, studio.ErrInvalidClientID),
		errors.Is(err, studio.ErrInvalidInvoiceID),
		errors.Is(err, studio.ErrInvalidPaymentMethod),
		errors.Is(err, studio.ErrInvalidPaymentStatus),
		errors.Is(err, studio.ErrInvalidClassSession),
		errors.Is(err, studio.ErrInvalidProClient),
		errors.Is(err, studio.ErrInvalidCreditDelta),
		errors.Is(err, studio.ErrInvalidB2BStatus):
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_request", err.Error()))
	default:
		handler.logger.Error("request failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, errorResponse("internal", "internal error"))
	}
}

func errorResponse(code string, message string) gin.H {
	return gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
}
