package fcm

import (
	"strings"

	"firebase.google.com/go/v4/messaging"
)

// Error codes reported per token. The names follow the Admin SDK's
// cross-language "messaging/*" codes so logs line up with the console.
const (
	CodeInvalidRegistrationToken       = "messaging/invalid-registration-token"
	CodeRegistrationTokenNotRegistered = "messaging/registration-token-not-registered"
	CodeInvalidArgument                = "messaging/invalid-argument"
	CodeMessageRateExceeded            = "messaging/message-rate-exceeded"
	CodeMismatchedCredential           = "messaging/mismatched-credential"
	CodeThirdPartyAuthError            = "messaging/third-party-auth-error"
	CodeServerUnavailable              = "messaging/server-unavailable"
	CodeInternalError                  = "messaging/internal-error"
	CodeUnknownError                   = "messaging/unknown-error"
)

// ErrorCode maps a per-token send error to one of the Code* constants.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case messaging.IsUnregistered(err):
		return CodeRegistrationTokenNotRegistered
	case messaging.IsInvalidArgument(err):
		// INVALID_ARGUMENT also covers malformed payloads; only a complaint
		// about the token itself marks the token as invalid.
		if strings.Contains(strings.ToLower(err.Error()), "registration token") {
			return CodeInvalidRegistrationToken
		}
		return CodeInvalidArgument
	case messaging.IsQuotaExceeded(err):
		return CodeMessageRateExceeded
	case messaging.IsSenderIDMismatch(err):
		return CodeMismatchedCredential
	case messaging.IsThirdPartyAuthError(err):
		return CodeThirdPartyAuthError
	case messaging.IsUnavailable(err):
		return CodeServerUnavailable
	case messaging.IsInternal(err):
		return CodeInternalError
	default:
		return CodeUnknownError
	}
}
