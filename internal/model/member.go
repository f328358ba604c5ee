package model

import (
	"time"

	"github.com/google/uuid"
)

// Member mirrors one row of the members table. The wire names follow the
// original registration form vocabulary, so the admin dashboard keeps working
// against this API unchanged.
type Member struct {
	Id                 uuid.UUID `json:"id"`
	FullName           string    `json:"fullName"`
	Gender             string    `json:"gender"`
	Status             string    `json:"status"`
	Part               string    `json:"part"`
	Zone               string    `json:"zone"`
	Area               string    `json:"area"`
	Parish             string    `json:"parish"`
	ParishAddress      string    `json:"parishAddress"`
	ResidentialAddress string    `json:"residentialAddress"`
	StateOfOrigin      string    `json:"stateOfOrigin"`
	HomeTown           string    `json:"homeTown"`
	Occupation         string    `json:"occupation"`
	PhoneNo            string    `json:"phoneNo"`
	JoinYear           int       `json:"joinYear"`
	Photo              string    `json:"photo"`
	Position           []string  `json:"position"`
	Instruments        []string  `json:"instruments"`
	CreatedAt          time.Time `json:"createdAt"`
}

// Pagination is the envelope the paginated list endpoint returns next to the
// member page.
type Pagination struct {
	CurrentPage  int  `json:"currentPage"`
	TotalPages   int  `json:"totalPages"`
	TotalMembers int  `json:"totalMembers"`
	HasNext      bool `json:"hasNext"`
	HasPrev      bool `json:"hasPrev"`
}

type MemberListResponse struct {
	Members    []Member   `json:"members"`
	Pagination Pagination `json:"pagination"`
}

type MemberSearchResponse struct {
	Success bool     `json:"success"`
	Members []Member `json:"members"`
	Total   int      `json:"total"`
}
