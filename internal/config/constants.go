package config

// Application constants
const (
	// Application Info
	AppName    = "salespulse"
	AppVersion = "1.0.0"

	// Source defaults
	DefaultSourcePath = "data/sales.xlsx"
	DefaultSheetName  = "Sales Report"

	// Analytics defaults
	DefaultTopN            = 10
	DefaultCancelledStatus = "Cancelled"

	// DefaultDateLayout accepts month/day/two-digit-year, e.g. 3/14/24 or 03/14/24.
	DefaultDateLayout = "1/2/06"
)
