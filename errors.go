package adcgo

import "github.com/codespace-operator/adcgo/internal/apierrors"

// Public error taxonomy. Every operation on Bridge raises only these kinds;
// lower-level transport/parse errors are translated at the HTTP and
// WebSocket layers (see internal/httpsession and internal/wsclient).
type (
	AuthenticationFailedError = apierrors.AuthenticationFailedError
	MustConfigureMfaError     = apierrors.MustConfigureMfaError
	OtpRequiredError          = apierrors.OtpRequiredError
	NotAuthorizedError        = apierrors.NotAuthorizedError
	UnknownDeviceError        = apierrors.UnknownDeviceError
	UnsupportedOperationError = apierrors.UnsupportedOperationError
	UnexpectedResponseError   = apierrors.UnexpectedResponseError
	ServiceUnavailableError   = apierrors.ServiceUnavailableError
	SessionExpiredError       = apierrors.SessionExpiredError
	NotInitializedError       = apierrors.NotInitializedError

	OtpMethod = apierrors.OtpMethod
)

const (
	OtpDisabled = apierrors.OtpDisabled
	OtpApp      = apierrors.OtpApp
	OtpSMS      = apierrors.OtpSMS
	OtpEmail    = apierrors.OtpEmail
)
