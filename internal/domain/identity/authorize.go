package identity

type Action string

const (
	ActionViewStaffing       Action = "staffing:view"
	ActionManageStaffing     Action = "staffing:manage"
	ActionViewPersonnel      Action = "personnel:view"
	ActionManagePersonnel    Action = "personnel:manage"
	ActionImportPersonnel    Action = "personnel:import"
	ActionLinkIdentity       Action = "personnel:link"
	ActionSubmitRequest      Action = "request:submit"
	ActionListRequests       Action = "request:list"
	ActionReviewHR           Action = "request:review_hr"
	ActionReviewLeadership   Action = "request:review_leadership"
	ActionSweepRequests      Action = "request:sweep"
	ActionViewLeaveBalance   Action = "leave:view"
	ActionViewInformation    Action = "information:view"
	ActionPublishInformation Action = "information:publish"
)

// Policy lists, per action, the roles allowed to perform it.
var Policy = map[Action][]Role{
	ActionViewStaffing:       {RoleAdmin, RoleHR, RoleLeadership},
	ActionManageStaffing:     {RoleAdmin},
	ActionViewPersonnel:      {RoleAdmin, RoleHR, RoleLeadership},
	ActionManagePersonnel:    {RoleAdmin, RoleHR},
	ActionImportPersonnel:    {RoleAdmin},
	ActionLinkIdentity:       {RoleAdmin},
	ActionSubmitRequest:      {RoleMember},
	ActionListRequests:       {RoleAdmin, RoleHR, RoleLeadership, RoleMember},
	ActionReviewHR:           {RoleHR},
	ActionReviewLeadership:   {RoleLeadership},
	ActionSweepRequests:      {RoleAdmin},
	ActionViewLeaveBalance:   {RoleAdmin, RoleHR, RoleLeadership, RoleMember},
	ActionViewInformation:    {RoleAdmin, RoleHR, RoleLeadership, RoleMember},
	ActionPublishInformation: {RoleHR},
}

// Authorize reports whether role may perform action.
func Authorize(role Role, action Action) bool {
	for _, r := range Policy[action] {
		if r == role {
			return true
		}
	}
	return false
}

// Authorizer is what the request layer consults before calling the core.
type Authorizer interface {
	Authorize(role Role, action Action) bool
}

// AuthorizerFunc adapts a plain function to Authorizer.
type AuthorizerFunc func(role Role, action Action) bool

func (f AuthorizerFunc) Authorize(role Role, action Action) bool { return f(role, action) }

// TableAuthorizer is the Policy table as an Authorizer.
var TableAuthorizer Authorizer = AuthorizerFunc(Authorize)
