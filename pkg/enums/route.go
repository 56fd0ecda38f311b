package enums

// Route names a navigation target of the client application.
type Route string

const (
	RouteLogin          Route = "login"
	RouteCashier        Route = "cashier"
	RouteOwnerDashboard Route = "owner-dashboard"
	RouteAdminDashboard Route = "admin-dashboard"
)

var homeRoutes = map[Role]Route{
	RoleCashier: RouteCashier,
	RoleOwner:   RouteOwnerDashboard,
	RoleAdmin:   RouteAdminDashboard,
}

// String implements fmt.Stringer.
func (r Route) String() string {
	return string(r)
}

// HomeRoute returns the screen a role lands on after login. Unknown roles go
// back to the login route.
func HomeRoute(role Role) Route {
	if route, ok := homeRoutes[role]; ok {
		return route
	}
	return RouteLogin
}
