// Package domain holds types shared by packages that must not import each
// other, such as the RBAC service and the HTTP middleware.
package domain

// EnforceRequest asks whether Role may perform Action on Resource.
// EmployeeID and CompanyID are carried for audit logging.
type EnforceRequest struct {
	Role       string `json:"role" binding:"required"`
	EmployeeID string `json:"employee_id"`
	CompanyID  string `json:"company_id"`
	Resource   string `json:"resource" binding:"required"`
	Action     string `json:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}
