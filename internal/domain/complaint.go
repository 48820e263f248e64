package domain

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusResolved   Status = "Resolved"
)

var Statuses = []Status{StatusPending, StatusInProgress, StatusResolved}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

type Category string

const (
	CategoryBrokenRoads       Category = "Broken Roads"
	CategoryStreetLights      Category = "Street Lights"
	CategoryGarbageCollection Category = "Garbage Collection"
	CategoryDrainageIssues    Category = "Drainage Issues"
	CategoryWaterSupply       Category = "Water Supply"
	CategoryPublicToilets     Category = "Public Toilets"
	CategoryOther             Category = "Other"
)

var Categories = []Category{
	CategoryBrokenRoads,
	CategoryStreetLights,
	CategoryGarbageCollection,
	CategoryDrainageIssues,
	CategoryWaterSupply,
	CategoryPublicToilets,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

const ComplaintIDPrefix = "VV"

var ComplaintIDPattern = regexp.MustCompile(`^VV\d{6}$`)

// NewComplaintID derives the public identifier from the last six digits of
// the Unix millisecond timestamp.
func NewComplaintID(t time.Time) string {
	return fmt.Sprintf("%s%06d", ComplaintIDPrefix, t.UnixMilli()%1_000_000)
}

type Complaint struct {
	ID          uuid.UUID  `json:"id"`
	ComplaintID string     `json:"complaint_id"`
	OwnerID     *uuid.UUID `json:"owner_id,omitempty"`
	Name        string     `json:"name"`
	Mobile      string     `json:"mobile"`
	Category    Category   `json:"category"`
	Description string     `json:"description"`
	Location    Location   `json:"location"`
	PhotoURL    *string    `json:"photo_url,omitempty"`
	Status      Status     `json:"status"`
	Remarks     *string    `json:"remarks,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type ComplaintFilter struct {
	Status *Status
}

func (f ComplaintFilter) Match(c *Complaint) bool {
	return f.Status == nil || c.Status == *f.Status
}

// StatusUpdate is written as one unit: status, remarks and updated_at together.
type StatusUpdate struct {
	Status    Status
	Remarks   *string
	UpdatedAt time.Time
}
