package domain

type CreateComplaintRequest struct {
	Name          string        `json:"name" validate:"required"`
	Mobile        string        `json:"mobile" validate:"required"`
	Category      Category      `json:"category" validate:"required,complaint_category"`
	Description   string        `json:"description" validate:"required"`
	Location      LocationInput `json:"location"`
	LocationDraft string        `json:"location_draft,omitempty" validate:"omitempty,uuid"`
	Photo         *PhotoUpload  `json:"-"`
}

type LocationInput struct {
	Lat     *float64 `json:"lat,omitempty" validate:"omitempty,lat"`
	Lng     *float64 `json:"lng,omitempty" validate:"omitempty,lng"`
	Address string   `json:"address,omitempty"`
}

func (l LocationInput) Empty() bool {
	return l.Lat == nil && l.Lng == nil && l.Address == ""
}

type UpdateStatusRequest struct {
	Status  Status  `json:"status" validate:"required,complaint_status"`
	Remarks *string `json:"remarks,omitempty"`
}

type ListComplaintsResponse struct {
	Complaints []*Complaint `json:"complaints"`
	Total      int          `json:"total"`
}
