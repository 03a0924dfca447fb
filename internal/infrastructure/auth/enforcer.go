package auth

import (
	"fmt"
	"log/slog"
	"sync"

	"sinfopers/internal/domain/identity"
	"sinfopers/internal/logger"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const rbacModel = `
[request_definition]
r = sub, act

[policy_definition]
p = sub, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.act == p.act
`

var _ identity.Authorizer = (*Enforcer)(nil)

// Enforcer answers role/action questions through casbin, loaded in memory
// from a role table.
type Enforcer struct {
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	log      *slog.Logger
}

func NewEnforcer(policy map[identity.Action][]identity.Role) (*Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}
	for action, roles := range policy {
		for _, role := range roles {
			if _, err := e.AddPolicy(string(role), string(action)); err != nil {
				return nil, fmt.Errorf("failed to add policy %s %s: %w", role, action, err)
			}
		}
	}
	return &Enforcer{enforcer: e, log: logger.WithComponent("authz")}, nil
}

// Authorize fails closed: an enforcement error denies.
func (e *Enforcer) Authorize(role identity.Role, action identity.Action) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ok, err := e.enforcer.Enforce(string(role), string(action))
	if err != nil {
		e.log.Error("permission check failed", "error", err, "role", role, "action", action)
		return false
	}
	return ok
}

// Policies returns the loaded (role, action) pairs.
func (e *Enforcer) Policies() ([][]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.enforcer.GetPolicy()
}
