package auth

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
)

// Rule describes who may call an operation. An empty Roles list admits any
// authenticated principal.
type Rule struct {
	Roles []models.Role
}

// Rules maps an operation name to its rule. Operations without an entry are
// public.
type Rules map[string]Rule

// Authorize decides access for p against rule. A nil principal is rejected
// with common.ErrorUnauthorized, a role mismatch with common.ErrorForbidden.
func Authorize(p *Principal, rule Rule) error {
	if p == nil {
		return common.ErrorUnauthorized
	}
	if len(rule.Roles) == 0 {
		return nil
	}
	for _, r := range rule.Roles {
		if p.HasRole(r) {
			return nil
		}
	}
	return common.ErrorForbidden
}

// CheckOwnership allows p to act on the resource owned by ownerID if p is the
// owner or an Admin.
func CheckOwnership(p *Principal, ownerID string) error {
	if p == nil {
		return common.ErrorUnauthorized
	}
	if p.ID == ownerID || p.IsAdmin() {
		return nil
	}
	return common.ErrorForbidden
}

// Guard evaluates Rules with a Resolver.
type Guard struct {
	resolver *Resolver
	rules    Rules
}

func NewGuard(resolver *Resolver, rules Rules) *Guard {
	return &Guard{resolver: resolver, rules: rules}
}

// Rule returns the rule for method and whether the method is protected.
func (g *Guard) Rule(method string) (Rule, bool) {
	r, ok := g.rules[method]
	return r, ok
}

// Check resolves the caller of method from the Authorization header and
// applies the method's rule. It returns the principal when one was resolved,
// even for public methods, so handlers can use it opportunistically.
func (g *Guard) Check(method, header string) (*Principal, error) {
	rule, protected := g.rules[method]

	p, err := g.resolver.Resolve(header)
	if err != nil {
		if !protected {
			// Public operations ignore a bad token rather than failing.
			return nil, nil
		}
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
		}
		return nil, common.ErrorUnauthorized
	}

	if !protected {
		return p, nil
	}

	if err := Authorize(p, rule); err != nil {
		return nil, err
	}
	return p, nil
}
