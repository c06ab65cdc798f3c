package services

import (
	apperrors "salespulse/internal/errors"
)

// ErrBundleNotReady is returned by DashboardService before a successful Load.
var ErrBundleNotReady = apperrors.NewAppError(apperrors.ErrTypeNotReady, "sales data has not been loaded", nil)
