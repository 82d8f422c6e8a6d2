package postgres

import (
	"fmt"

	"github.com/frahmantamala/hrms-backend/internal/audit"
	"gorm.io/gorm"
)

// AuditRepository implements both the recorder and query sides of the audit
// trail using GORM.
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Insert(log *audit.Log) error {
	return r.db.Create(log).Error
}

// filterClause builds the WHERE tail shared by list/count/stats queries.
// The organisation predicate always comes first; filters are AND-combined.
func filterClause(column string, orgID string, f audit.Filters, withAction bool) (string, []interface{}) {
	clause := fmt.Sprintf("WHERE %sorganisation_id = ?", column)
	args := []interface{}{orgID}

	if withAction {
		if f.Action != "" {
			clause += fmt.Sprintf(" AND %saction = ?", column)
			args = append(args, f.Action)
		}
		if f.ResourceType != "" {
			clause += fmt.Sprintf(" AND %sresource_type = ?", column)
			args = append(args, f.ResourceType)
		}
	}
	if f.StartDate != "" {
		clause += fmt.Sprintf(" AND %screated_at >= ?", column)
		args = append(args, f.StartDate)
	}
	if f.EndDate != "" {
		clause += fmt.Sprintf(" AND %screated_at <= ?", column)
		args = append(args, f.EndDate)
	}

	return clause, args
}

func (r *AuditRepository) List(orgID string, f audit.Filters, limit, offset int) ([]audit.ListItem, error) {
	clause, args := filterClause("al.", orgID, f, true)
	args = append(args, limit, offset)

	var items []audit.ListItem
	err := r.db.Raw(
		`SELECT al.*, u.name AS user_name, u.email AS user_email
		 FROM audit_logs al
		 JOIN users u ON al.user_id = u.id
		 `+clause+`
		 ORDER BY al.created_at DESC
		 LIMIT ? OFFSET ?`, args...).Scan(&items).Error
	return items, err
}

func (r *AuditRepository) Count(orgID string, f audit.Filters) (int64, error) {
	clause, args := filterClause("al.", orgID, f, true)

	var total int64
	err := r.db.Raw(
		`SELECT COUNT(*) FROM audit_logs al `+clause, args...).Scan(&total).Error
	return total, err
}

func (r *AuditRepository) ActionStats(orgID string, f audit.Filters) ([]audit.ActionCount, error) {
	clause, args := filterClause("", orgID, f, false)

	var stats []audit.ActionCount
	err := r.db.Raw(
		`SELECT action, COUNT(*) AS count
		 FROM audit_logs `+clause+`
		 GROUP BY action
		 ORDER BY count DESC`, args...).Scan(&stats).Error
	return stats, err
}

func (r *AuditRepository) ResourceStats(orgID string, f audit.Filters) ([]audit.ResourceCount, error) {
	clause, args := filterClause("", orgID, f, false)

	var stats []audit.ResourceCount
	err := r.db.Raw(
		`SELECT resource_type, COUNT(*) AS count
		 FROM audit_logs `+clause+`
		 GROUP BY resource_type
		 ORDER BY count DESC`, args...).Scan(&stats).Error
	return stats, err
}

func (r *AuditRepository) DailyActivity(orgID string, f audit.Filters, days int) ([]audit.DailyCount, error) {
	clause, args := filterClause("", orgID, f, false)
	args = append(args, days)

	var activity []audit.DailyCount
	err := r.db.Raw(
		`SELECT DATE(created_at) AS date, COUNT(*) AS count
		 FROM audit_logs `+clause+`
		 GROUP BY DATE(created_at)
		 ORDER BY date DESC
		 LIMIT ?`, args...).Scan(&activity).Error
	return activity, err
}
