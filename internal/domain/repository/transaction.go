package repository

import "context"

// TransactionManager defines the interface for managing units of work.
// This allows the use case layer to handle transactions without depending on the orm session.
type TransactionManager interface {
	// Execute runs a function within a single transaction.
	// If the function returns an error or panics, the transaction is rolled back. Otherwise, pending
	// changes are flushed and it is committed.
	// All repository operations within the function share one session, so an entity loaded twice
	// is the same instance and modifications to loaded entities are written without an explicit save.
	Execute(ctx context.Context, fn func(txRepoFactory RepositoryFactory) error) error
}

// RepositoryFactory provides a way to get repository instances that are bound to a specific transaction.
type RepositoryFactory interface {
	// NewMemberRepository returns a MemberRepository instance bound to the current transaction.
	NewMemberRepository() MemberRepository

	// NewTeamRepository returns a TeamRepository instance bound to the current transaction.
	NewTeamRepository() TeamRepository

	// NewItemRepository returns an ItemRepository instance bound to the current transaction.
	NewItemRepository() ItemRepository

	// NewOrderRepository returns an OrderRepository instance bound to the current transaction.
	NewOrderRepository() OrderRepository

	// NewOrderQueryRepository returns an OrderQueryRepository instance bound to the current transaction.
	NewOrderQueryRepository() OrderQueryRepository
}
