package sqlite

import (
	"database/sql"

	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

// NewRepositoryProvider wires the SQLite repositories over one handle so they share transactions.
func NewRepositoryProvider(db *sql.DB) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo: newAccountRepository(db),
		JournalRepo: newJournalRepository(db),
	}
}
