package dataprocessing

import "salespulse/pkg/contracts/domain"

// FilterActive returns the records whose Order Status is not byte-equal to
// cancelledStatus, in their original order. The input is not modified.
func FilterActive(records []domain.SalesRecord, cancelledStatus string) []domain.SalesRecord {
	active := make([]domain.SalesRecord, 0, len(records))
	for _, rec := range records {
		if rec.IsActive(cancelledStatus) {
			active = append(active, rec)
		}
	}
	return active
}
