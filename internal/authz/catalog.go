package authz

// Capability is a named administrative permission drawn from a fixed catalog.
type Capability string

const (
	CapabilityDashboard          Capability = "Dashboard"
	CapabilityUserManagement     Capability = "User Management"
	CapabilityEmployeeManagement Capability = "Employee Management"
	CapabilityContentModeration  Capability = "Content Moderation"
	CapabilitySupportPanel       Capability = "Support Panel"
	CapabilityPlatformSettings   Capability = "Platform Settings"
	CapabilityAnalytics          Capability = "Analytics"
)

// View identifies one administrative console surface.
type View string

const (
	ViewOverview     View = "overview"
	ViewUsers        View = "users"
	ViewEmployees    View = "employees"
	ViewModeration   View = "moderation"
	ViewVerification View = "verification"
	ViewTickets      View = "tickets"
	ViewSupport      View = "support"
	ViewSettings     View = "settings"
	ViewAnalytics    View = "analytics"

	// ViewAccessDenied is the pseudo-view returned when no real view is
	// reachable with the caller's permissions.
	ViewAccessDenied View = "access_denied"
)

// catalogOrder fixes both the set of views and their display order. The
// verification and ticket surfaces are gated by the consoles they live in.
var catalogOrder = []struct {
	view View
	cap  Capability
}{
	{ViewOverview, CapabilityDashboard},
	{ViewUsers, CapabilityUserManagement},
	{ViewEmployees, CapabilityEmployeeManagement},
	{ViewModeration, CapabilityContentModeration},
	{ViewVerification, CapabilityUserManagement},
	{ViewTickets, CapabilitySupportPanel},
	{ViewSupport, CapabilitySupportPanel},
	{ViewSettings, CapabilityPlatformSettings},
	{ViewAnalytics, CapabilityAnalytics},
}

// AllCapabilities returns the capability catalog in declaration order.
func AllCapabilities() []Capability {
	return []Capability{
		CapabilityDashboard,
		CapabilityUserManagement,
		CapabilityEmployeeManagement,
		CapabilityContentModeration,
		CapabilitySupportPanel,
		CapabilityPlatformSettings,
		CapabilityAnalytics,
	}
}

// AllViews returns view identifiers in catalog order.
func AllViews() []View {
	views := make([]View, 0, len(catalogOrder))
	for _, entry := range catalogOrder {
		views = append(views, entry.view)
	}
	return views
}

// RequiredCapability resolves the capability gating a view. An unknown view is
// a caller error; ok is false and no access is implied.
func RequiredCapability(view View) (Capability, bool) {
	for _, entry := range catalogOrder {
		if entry.view == view {
			return entry.cap, true
		}
	}
	return "", false
}

// KnownCapability reports whether a name belongs to the fixed catalog.
func KnownCapability(name string) bool {
	for _, cap := range AllCapabilities() {
		if Capability(name) == cap {
			return true
		}
	}
	return false
}
