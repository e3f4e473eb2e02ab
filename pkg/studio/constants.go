package studio

import "time"

const (
	operationBook          = "book"
	operationCancel        = "cancel"
	operationManualAdd     = "manual_add"
	operationManualRemove  = "manual_remove"
	operationPaymentToggle = "payment_toggle"
	operationCreditAdjust  = "credit_adjust"
	operationClassCreate   = "class_create"
	operationClassUpdate   = "class_update"
	operationClassDelete   = "class_delete"
	operationClassArchive  = "class_archive"
	operationRegister      = "register"
	operationProfileUpdate = "profile_update"
	operationQuoteCreate   = "quote_create"
	operationQuoteFinalize = "quote_finalize"
	operationB2BToggle     = "b2b_payment_toggle"

	operationStatusOK    = "ok"
	operationStatusError = "error"

	manualIdentityPrefix = "manual:"

	defaultClassLength = 90 * time.Minute
)

// DefaultClassLengthSeconds is applied when a class is created without an
// explicit end time.
func DefaultClassLengthSeconds() int64 {
	return int64(defaultClassLength / time.Second)
}
