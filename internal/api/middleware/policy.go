package middleware

import "github.com/example/vendor-market/internal/account"

// Operation names a protected capability. Routes are authorized by looking
// the operation up in the policy table once per request instead of
// re-deriving role checks inside each handler.
type Operation string

const (
	OpPlaceOrder    Operation = "orders.place"
	OpViewOwnOrders Operation = "orders.view_own"
	OpRequestVendor Operation = "vendors.request"
	OpManageListing Operation = "vendors.manage_listings"
	OpAdminUsers    Operation = "admin.users"
	OpAdminOrders   Operation = "admin.orders"
	OpAdminCatalog  Operation = "admin.catalog"
	OpAdminVendors  Operation = "admin.vendors"
)

// policy is the closed {operation -> allowed roles} table. Admins are
// granted vendor capabilities, matching the original route guards.
var policy = map[Operation][]account.Role{
	OpPlaceOrder:    {account.RoleUser, account.RolePending, account.RoleVendor, account.RoleAdmin},
	OpViewOwnOrders: {account.RoleUser, account.RolePending, account.RoleVendor, account.RoleAdmin},
	OpRequestVendor: {account.RoleUser, account.RolePending},
	OpManageListing: {account.RoleVendor, account.RoleAdmin},
	OpAdminUsers:    {account.RoleAdmin},
	OpAdminOrders:   {account.RoleAdmin},
	OpAdminCatalog:  {account.RoleAdmin},
	OpAdminVendors:  {account.RoleAdmin},
}

// Allowed reports whether role may perform op.
func Allowed(op Operation, role string) bool {
	for _, r := range policy[op] {
		if string(r) == role {
			return true
		}
	}
	return false
}
