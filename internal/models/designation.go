package models

// Designation is a free-standing catalog entry; titles are unique across the
// system and deletion is refused while any Employee references the row.
type Designation struct {
	Base
	Title      string `json:"title"`
	Department string `json:"department"`
	Level      int    `json:"level"`
	ReportsTo  string `json:"reports_to,omitempty"`
}

// CreateDesignationRequest is the payload for POST /designations.
type CreateDesignationRequest struct {
	Title      string `json:"title"`
	Department string `json:"department"`
	Level      int    `json:"level"`
	ReportsTo  string `json:"reports_to,omitempty"`
}

// UpdateDesignationRequest carries the mutable subset of a Designation.
type UpdateDesignationRequest struct {
	Department *string `json:"department,omitempty"`
	Level      *int    `json:"level,omitempty"`
	ReportsTo  *string `json:"reports_to,omitempty"`
}
