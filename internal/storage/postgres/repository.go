package postgres

import (
	"villagevoice/internal/service"
)

var (
	_ service.ComplaintStore    = (*ComplaintRepo)(nil)
	_ service.UserRepository    = (*IdentityRepo)(nil)
	_ service.ProfileRepository = (*IdentityRepo)(nil)
)

func (p *Postgres) ComplaintStore() service.ComplaintStore { return p.Complaints }
func (p *Postgres) Users() service.UserRepository          { return p.Identity }
func (p *Postgres) Profiles() service.ProfileRepository    { return p.Identity }
