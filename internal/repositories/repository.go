package repositories

import "context"

// Repository aggregates access to all entity repositories. Instances
// returned inside WithTransaction share the transaction's connection.
type Repository interface {
	User() UserRepository
	Catalog() CatalogRepository
	Offering() OfferingRepository
	Activity() ActivityRepository
	Notification() NotificationRepository

	// WithTransaction runs fn against a transaction-scoped Repository.
	// Any error returned by fn rolls the whole transaction back.
	WithTransaction(ctx context.Context, fn func(repo Repository) error) error

	Ping(ctx context.Context) error
	Close() error
}

// RepositoryManager owns the lifecycle of the repository layer.
type RepositoryManager interface {
	// Initialize verifies connections and builds the repository instance.
	Initialize() error

	GetRepository() Repository

	HealthCheck(ctx context.Context) error

	// Shutdown closes database and cache connections.
	Shutdown(ctx context.Context) error
}
