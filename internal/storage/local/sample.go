package local

import (
	"time"

	"github.com/google/uuid"

	"villagevoice/internal/domain"
)

type sample struct {
	id          string
	name        string
	mobile      string
	category    domain.Category
	description string
	location    string
	status      domain.Status
	daysAgo     int
	remarks     string
}

var samples = []sample{
	{
		id:          "VV001234",
		name:        "Rajesh Kumar",
		mobile:      "9876543210",
		category:    domain.CategoryBrokenRoads,
		description: "There is a big pothole on the main road near the village temple. It becomes very dangerous during monsoon and many vehicles get damaged.",
		location:    "Main Road, near Village Temple",
		status:      domain.StatusInProgress,
		daysAgo:     5,
		remarks:     "Work has been assigned to the local contractor. Expected completion in 1 week.",
	},
	{
		id:          "VV001235",
		name:        "Priya Devi",
		mobile:      "9876543211",
		category:    domain.CategoryStreetLights,
		description: "Street lights near the school are not working for the past 2 weeks. Children face difficulty walking in the evening.",
		location:    "School Road",
		status:      domain.StatusResolved,
		daysAgo:     10,
		remarks:     "Street lights have been repaired and are now working properly.",
	},
	{
		id:          "VV001236",
		name:        "Suresh Reddy",
		mobile:      "9876543212",
		category:    domain.CategoryGarbageCollection,
		description: "Garbage is not being collected regularly from our area. The waste is piling up and creating health hazards.",
		location:    "Gandhi Nagar Colony",
		status:      domain.StatusPending,
		daysAgo:     2,
	},
	{
		id:          "VV001237",
		name:        "Lakshmi Amma",
		mobile:      "9876543213",
		category:    domain.CategoryDrainageIssues,
		description: "Water logging problem during rains due to blocked drainage. Water enters houses and damages property.",
		location:    "Nehru Street",
		status:      domain.StatusInProgress,
		daysAgo:     7,
		remarks:     "Drainage cleaning work is scheduled for this week.",
	},
	{
		id:          "VV001238",
		name:        "Mohan Rao",
		mobile:      "9876543214",
		category:    domain.CategoryWaterSupply,
		description: "No water supply for the past 3 days in our area. Residents are facing severe water shortage.",
		location:    "Krishna Colony",
		status:      domain.StatusResolved,
		daysAgo:     4,
		remarks:     "Water supply has been restored. The issue was due to a pump failure which has been fixed.",
	},
}

// SampleComplaints returns the demo data a fresh local store starts with,
// dated relative to now.
func SampleComplaints(now time.Time) []domain.Complaint {
	out := make([]domain.Complaint, 0, len(samples))
	for _, s := range samples {
		at := now.AddDate(0, 0, -s.daysAgo)
		c := domain.Complaint{
			ID:          uuid.New(),
			ComplaintID: s.id,
			Name:        s.name,
			Mobile:      s.mobile,
			Category:    s.category,
			Description: s.description,
			Location:    domain.Location{Address: s.location},
			Status:      s.status,
			CreatedAt:   at,
			UpdatedAt:   at,
		}
		if s.remarks != "" {
			r := s.remarks
			c.Remarks = &r
		}
		out = append(out, c)
	}
	return out
}
