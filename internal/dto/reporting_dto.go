package dto

import "time"

// ReportDateRange bounds a report query. Zero values are open ends.
type ReportDateRange struct {
	From time.Time `form:"from" time_format:"2006-01-02"`
	To   time.Time `form:"to" time_format:"2006-01-02"`
}
