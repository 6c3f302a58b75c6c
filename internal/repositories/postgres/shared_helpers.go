package postgres

import (
	"gorm.io/gorm"

	"github.com/CMP-2025/course-activity-service/internal/repositories"
)

// SharedHelpers contains common query building helpers
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// ApplyOfferingFilters applies common filters to offering queries
func (h *SharedHelpers) ApplyOfferingFilters(query *gorm.DB, filters repositories.OfferingFilters) *gorm.DB {
	if filters.Trimester != nil {
		query = query.Where("trimester = ?", *filters.Trimester)
	}
	if filters.IntakePeriod != nil {
		query = query.Where("intake_period = ?", *filters.IntakePeriod)
	}
	if filters.CohortID != nil {
		query = query.Where("cohort_id = ?", *filters.CohortID)
	}
	if filters.FacilitatorID != nil {
		query = query.Where("facilitator_id = ?", *filters.FacilitatorID)
	}
	if filters.ModeID != nil {
		query = query.Where("mode_id = ?", *filters.ModeID)
	}
	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}
	return query
}

// ApplyActivityFilters applies common filters to activity tracker queries
func (h *SharedHelpers) ApplyActivityFilters(query *gorm.DB, filters repositories.ActivityFilters) *gorm.DB {
	if filters.AllocationID != nil {
		query = query.Where("allocation_id = ?", *filters.AllocationID)
	}
	if filters.WeekNumber != nil {
		query = query.Where("week_number = ?", *filters.WeekNumber)
	}
	return query
}

// ApplyPaginationAndSort applies pagination and sorting with SQL injection protection
func (h *SharedHelpers) ApplyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, limit, offset int) *gorm.DB {
	// Whitelist allowed sort columns
	allowedSortColumns := map[string]bool{
		"created_at":  true,
		"updated_at":  true,
		"id":          true,
		"start_date":  true,
		"end_date":    true,
		"week_number": true,
		"trimester":   true,
	}

	if sortBy == "" || !allowedSortColumns[sortBy] {
		sortBy = "created_at"
	}

	if sortOrder != "asc" && sortOrder != "ASC" {
		sortOrder = "DESC"
	} else {
		sortOrder = "ASC"
	}

	query = query.Order(sortBy + " " + sortOrder)

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	return query.Limit(limit).Offset(offset)
}

// NormalizePage clamps limit and offset for list queries without sorting
func NormalizePage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
