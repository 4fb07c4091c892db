package user

import "time"

// ProfileResponse is the directory view returned to callers; the password
// hash never leaves the service.
type ProfileResponse struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Department string    `json:"department"`
	Role       Role      `json:"role"`
	ManagerID  *int64    `json:"manager_id,omitempty"`
	Position   string    `json:"position"`
	Country    string    `json:"country"`
	JoinDate   time.Time `json:"join_date"`
}

func (u *User) ToProfile() ProfileResponse {
	return ProfileResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Department: u.Department,
		Role:       u.Role,
		ManagerID:  u.ManagerID,
		Position:   u.Position,
		Country:    u.Country,
		JoinDate:   u.JoinDate,
	}
}
