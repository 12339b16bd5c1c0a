package apiclient

// Session is the authenticated identity the client sends with every call.
// It is owned by the caller and handed to New; the client never keeps it in
// package state.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	CompanyID    string `json:"company_id"`
	Role         string `json:"role"`
}

func (s Session) Authenticated() bool {
	return s.AccessToken != ""
}

type userPayload struct {
	ID           string `json:"id"`
	CompanyID    string `json:"company_id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
}

type tokenPayload struct {
	User         userPayload `json:"user"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
}

func (p tokenPayload) session() Session {
	return Session{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		UserID:       p.User.ID,
		EmployeeID:   p.User.EmployeeID,
		EmployeeName: p.User.EmployeeName,
		CompanyID:    p.User.CompanyID,
		Role:         p.User.Role,
	}
}
