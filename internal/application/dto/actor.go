package dto

// Actor identifies who is performing an operation. Built by the HTTP layer
// from the JWT; core operations take it explicitly instead of reading
// ambient state.
type Actor struct {
	UserID    string
	CompanyID string
	Admin     bool
}

// CanAccess reports whether the actor may touch resources of a company.
func (a Actor) CanAccess(companyID string) bool {
	return a.Admin || a.CompanyID == companyID
}
