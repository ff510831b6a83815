package entity

import "ormlab/internal/orm"

// Team groups members.
type Team struct {
	ID   int64 `orm:"column:team_id;primaryKey;autoIncrement"`
	Name string
	BaseEntity

	// Members is the inverse side of Member.Team.
	Members orm.Collection[Member] `orm:"mappedBy:Team"`
}

// NewTeam creates a transient team.
func NewTeam(name string) *Team {
	return &Team{Name: name}
}
