package auth

const (
	PermEvaluationsRead       = "evaluations.read"
	PermEvaluationsWrite      = "evaluations.write"
	PermEvaluationsTransition = "evaluations.transition"
	PermRosterRead            = "roster.read"
)

var DefaultPermissions = []string{
	PermEvaluationsRead,
	PermEvaluationsWrite,
	PermEvaluationsTransition,
	PermRosterRead,
}

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermEvaluationsRead,
		PermEvaluationsTransition,
		PermRosterRead,
	},
	RoleLM: {
		PermEvaluationsRead,
		PermEvaluationsWrite,
		PermEvaluationsTransition,
		PermRosterRead,
	},
	RoleHOD: {
		PermEvaluationsRead,
		PermEvaluationsWrite,
		PermEvaluationsTransition,
		PermRosterRead,
	},
	RoleHR: {
		PermEvaluationsRead,
		PermEvaluationsWrite,
		PermEvaluationsTransition,
		PermRosterRead,
	},
	RoleAdmin: DefaultPermissions,
}
