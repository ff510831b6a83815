package entity

import (
	"ormlab/internal/orm"
)

// Member is a customer of the shop.
type Member struct {
	ID      int64 `orm:"column:member_id;primaryKey;autoIncrement"`
	Name    string
	Age     int
	Address Address
	BaseEntity

	Team   orm.Ref[Team]         // Owning side; nil when the member has no team.
	Orders orm.Collection[Order] `orm:"mappedBy:Member"`
}

// NewMember creates a transient member.
func NewMember(name string, age int, address Address) *Member {
	return &Member{Name: name, Age: age, Address: address}
}

// ChangeTeam moves the member to team, keeping Team.Members in step on both
// the old and the new team. A nil team removes the member from its team.
func (m *Member) ChangeTeam(team *Team) {
	if team == nil {
		orm.Unlink(m, &m.Team, membersOf)

		return
	}
	orm.Link(m, &m.Team, team, membersOf)
}

func membersOf(t *Team) *orm.Collection[Member] {
	return &t.Members
}
