package entity

import (
	"ormlab/internal/orm"
)

// Register maps every shop entity into reg.
func Register(reg *orm.Registry) error {
	steps := []func() error{
		func() error { return orm.Register[Team](reg) },
		func() error { return orm.Register[Member](reg) },
		func() error {
			return orm.Register[Item](reg, orm.WithInheritance(orm.Joined,
				orm.Subtype[Book]("B", "book"),
				orm.Subtype[Movie]("M", "movie"),
				orm.Subtype[Album]("A", "album"),
			))
		},
		func() error { return orm.Register[Delivery](reg) },
		func() error { return orm.Register[Order](reg, orm.WithTable("orders")) },
		func() error { return orm.Register[OrderItem](reg) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	return nil
}

// NewRegistry returns a validated registry holding the shop mapping.
func NewRegistry() (*orm.Registry, error) {
	reg := orm.NewRegistry()
	if err := Register(reg); err != nil {
		return nil, err
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	return reg, nil
}
