package access

import (
	"github.com/google/uuid"

	"github.com/mussa52/madalali-tz/pkg/enums"
	pkgerrors "github.com/mussa52/madalali-tz/pkg/errors"
)

// Principal is the authenticated caller, resolved once by the auth middleware
// and passed explicitly into every service operation that needs it. A nil
// Principal means the request is anonymous.
type Principal struct {
	ID    uuid.UUID
	Email string
	Role  enums.UserRole
}

// IsAdmin reports whether the principal holds the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == enums.UserRoleAdmin
}

// IsAgent reports whether the principal holds the agent role.
func (p *Principal) IsAgent() bool {
	return p != nil && p.Role == enums.UserRoleAgent
}

// IsClient reports whether the principal holds the client role.
func (p *Principal) IsClient() bool {
	return p != nil && p.Role == enums.UserRoleClient
}

// Authorize enforces that the caller is authenticated and holds one of the
// allowed roles. Admin is not implicit: an operation open to admins must list
// the admin role explicitly.
func Authorize(p *Principal, allowed ...enums.UserRole) error {
	if p == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	for _, role := range allowed {
		if p.Role == role {
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "insufficient permissions")
}

// CheckOwnership enforces that the caller owns the resource. Admins pass the
// ownership check for any resource.
func CheckOwnership(p *Principal, ownerID uuid.UUID) error {
	if p == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if p.Role == enums.UserRoleAdmin {
		return nil
	}
	if p.ID != ownerID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "you do not own this resource")
	}
	return nil
}
