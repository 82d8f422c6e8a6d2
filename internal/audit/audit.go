package audit

import (
	"net/http"
	"strings"
	"time"
)

// Mutating actions recorded in the audit trail.
const (
	ActionCreate   = "CREATE"
	ActionUpdate   = "UPDATE"
	ActionDelete   = "DELETE"
	ActionLogin    = "LOGIN"
	ActionLogout   = "LOGOUT"
	ActionAssign   = "ASSIGN"
	ActionUnassign = "UNASSIGN"
)

const (
	ResourceOrganisation = "ORGANISATION"
	ResourceUser         = "USER"
	ResourceEmployee     = "EMPLOYEE"
	ResourceTeam         = "TEAM"
	ResourceEmployeeTeam = "EMPLOYEE_TEAM"
)

// Log is one immutable audit record. Rows are only ever inserted; nothing in
// the application updates or deletes them.
type Log struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	OrganisationID string    `json:"organisation_id" gorm:"column:organisation_id;not null"`
	UserID         string    `json:"user_id" gorm:"column:user_id;not null"`
	Action         string    `json:"action" gorm:"not null"`
	ResourceType   string    `json:"resource_type" gorm:"column:resource_type;not null"`
	ResourceID     *string   `json:"resource_id" gorm:"column:resource_id"`
	Details        string    `json:"details"`
	IPAddress      *string   `json:"ip_address" gorm:"column:ip_address"`
	UserAgent      *string   `json:"user_agent" gorm:"column:user_agent"`
	CreatedAt      time.Time `json:"created_at" gorm:"column:created_at"`
}

func (Log) TableName() string {
	return "audit_logs"
}

// ListItem is a Log joined with the acting user's name and email.
type ListItem struct {
	Log
	UserName  string `json:"user_name" gorm:"column:user_name"`
	UserEmail string `json:"user_email" gorm:"column:user_email"`
}

// RequestMeta carries the request-origin fields written into each record.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// MetaFromRequest extracts client IP and user agent, honoring
// X-Forwarded-For when the service sits behind a proxy.
func MetaFromRequest(r *http.Request) RequestMeta {
	if r == nil {
		return RequestMeta{}
	}

	ip := r.RemoteAddr
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		ip = strings.TrimSpace(strings.Split(forwarded, ",")[0])
	} else if host := r.RemoteAddr; host != "" {
		if idx := strings.LastIndex(host, ":"); idx > 0 {
			ip = host[:idx]
		}
	}

	return RequestMeta{
		IPAddress: ip,
		UserAgent: r.UserAgent(),
	}
}

// Entry is the recorder input for one mutating action.
type Entry struct {
	Action         string
	ResourceType   string
	ResourceID     string
	Details        any
	OrganisationID string
	UserID         string
	Meta           RequestMeta
}
