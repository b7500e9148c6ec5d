package ports

import (
	"context"

	"github.com/shoplane/auth-api/internal/core/domain"
)

// AuditSink accepts login audit events. Record must never block the
// login path; implementations buffer and persist asynchronously.
type AuditSink interface {
	Record(event domain.LoginAudit)
}

// AuditRepository persists audit entries.
type AuditRepository interface {
	Insert(ctx context.Context, entry domain.LoginAudit) error
}
