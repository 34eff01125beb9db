package entity

var SalesRepFields = []string{"Name", "leads_contacted", "meetings_booked", "deals_closed", "total_revenue", "Tags"}

type SalesRep struct {
	ID             int64   `json:"Id"`
	Name           string  `json:"Name"`
	LeadsContacted int     `json:"leads_contacted"`
	MeetingsBooked int     `json:"meetings_booked"`
	DealsClosed    int     `json:"deals_closed"`
	TotalRevenue   float64 `json:"total_revenue"`
	Tags           string  `json:"Tags,omitempty"`
}

// ConversionRate is deals closed per meeting booked, in whole percent.
func (r *SalesRep) ConversionRate() int {
	if r.MeetingsBooked <= 0 {
		return 0
	}
	return int(float64(r.DealsClosed)/float64(r.MeetingsBooked)*100 + 0.5)
}

var TeamMemberFields = []string{"Name", "email", "role", "permissions", "status", "created_at", "updated_at", "last_login", "Tags"}

type TeamMember struct {
	ID          int64     `json:"Id"`
	Name        string    `json:"Name"`
	Email       string    `json:"email"`
	Role        string    `json:"role,omitempty"`
	Permissions string    `json:"permissions,omitempty"`
	Status      string    `json:"status,omitempty"`
	CreatedAt   Timestamp `json:"created_at,omitzero"`
	UpdatedAt   Timestamp `json:"updated_at,omitzero"`
	LastLogin   Timestamp `json:"last_login,omitzero"`
	Tags        string    `json:"Tags,omitempty"`
}

var ContactFields = []string{"Name", "email", "company", "status", "assigned_rep", "notes", "created_at", "Tags"}

type Contact struct {
	ID          int64     `json:"Id"`
	Name        string    `json:"Name"`
	Email       string    `json:"email,omitempty"`
	Company     string    `json:"company,omitempty"`
	Status      string    `json:"status,omitempty"`
	AssignedRep string    `json:"assigned_rep,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   Timestamp `json:"created_at,omitzero"`
	Tags        string    `json:"Tags,omitempty"`
}
