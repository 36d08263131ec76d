package importer

// RateSources carries the rate candidates for one time entry, most
// specific first. Rates are integer minor currency units; a zero is
// treated as "no rate set".
type RateSources struct {
	EntryBillable bool

	ProjectBillable   bool
	ProjectMemberRate *int64
	ProjectRate       *int64
	MemberRate        *int64
	OrganizationRate  *int64
}

// ResolveBillableRate walks the rate cascade and returns the rate to
// store, or nil when no source applies. The first match stops the
// cascade:
//
//  1. project-member override, when the project is billable
//  2. project default, when the project is billable
//  3. member organization-wide default
//  4. organization default
//
// A non-billable entry always resolves to nil; the entry keeps its
// billable flag independently of the resolved rate.
func ResolveBillableRate(s RateSources) *int64 {
	if !s.EntryBillable {
		return nil
	}
	if s.ProjectBillable {
		if r := normalizeRate(s.ProjectMemberRate); r != nil {
			return r
		}
		if r := normalizeRate(s.ProjectRate); r != nil {
			return r
		}
	}
	if r := normalizeRate(s.MemberRate); r != nil {
		return r
	}
	return normalizeRate(s.OrganizationRate)
}

func normalizeRate(rate *int64) *int64 {
	if rate == nil || *rate == 0 {
		return nil
	}
	return rate
}
