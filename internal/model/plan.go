package model

// Plan names. Unknown plans normalize to freelance.
const (
	PlanFreelance  = "freelance"
	PlanPME        = "pme"
	PlanEntreprise = "entreprise"
)

// PlanLimits is the static entitlement table for one plan. The owner always
// occupies one implicit seat, so TotalUsers = InvitableUsers + 1.
type PlanLimits struct {
	InvitableUsers  int
	Accountants     int
	TotalUsers      int
	CanAddPaidUsers bool
	Workspaces      int
	StorageGB       int
	Projects        int
	Invoices        int
}

// planCatalog is loaded once and never mutated.
var planCatalog = map[string]PlanLimits{
	PlanFreelance: {
		InvitableUsers:  1,
		Accountants:     1,
		TotalUsers:      2,
		CanAddPaidUsers: false,
		Workspaces:      1,
		StorageGB:       10,
		Projects:        10,
		Invoices:        100,
	},
	PlanPME: {
		InvitableUsers:  10,
		Accountants:     1,
		TotalUsers:      11,
		CanAddPaidUsers: true,
		Workspaces:      3,
		StorageGB:       100,
		Projects:        100,
		Invoices:        1000,
	},
	PlanEntreprise: {
		InvitableUsers:  30,
		Accountants:     3,
		TotalUsers:      31,
		CanAddPaidUsers: true,
		Workspaces:      10,
		StorageGB:       500,
		Projects:        1000,
		Invoices:        10000,
	},
}

// GetPlanLimits returns the limits for the named plan. An unknown or empty
// plan name falls back to the freelance limits; this is the documented
// default, not an error.
func GetPlanLimits(plan string) PlanLimits {
	if limits, ok := planCatalog[plan]; ok {
		return limits
	}
	return planCatalog[PlanFreelance]
}

// KnownPlan reports whether plan is one of the catalog entries.
func KnownPlan(plan string) bool {
	_, ok := planCatalog[plan]
	return ok
}

// PlanRank orders plans for upgrade/downgrade detection. Unknown plans rank
// as freelance.
func PlanRank(plan string) int {
	switch plan {
	case PlanEntreprise:
		return 3
	case PlanPME:
		return 2
	default:
		return 1
	}
}
