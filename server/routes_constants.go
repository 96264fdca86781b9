package server

const (
	RouteAuth         = "/auth"
	RouteAuthRefresh  = "/auth/refresh"
	RouteAuthLogout   = "/auth/logout"
	RouteAuthRegister = "/auth/register/{token}"
	RouteAdminUsers   = "/admin/users"
)
