package postgres

import (
	"gorm.io/gorm"

	"github.com/msmebazaar/platform/services/escrow-settlement-service/internal/ports"
)

// Repositories bundles the Postgres-backed port implementations that share
// one connection pool.
type Repositories struct {
	Escrows ports.EscrowRepository
	Outbox  ports.OutboxRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Escrows: &escrowRepository{db: db},
		Outbox:  &outboxRepository{db: db},
	}
}
