package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// Both storage adapters (pgsql and sqlite) build one of these.
type RepositoryProvider struct {
	AccountRepo AccountRepositoryWithTx
	JournalRepo JournalRepositoryWithTx
}
