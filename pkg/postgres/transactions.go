package postgres

import (
	"context"

	"gorm.io/gorm"
)

// cloneWithTx returns a Postgres that shares configuration and lifecycle channels
// with p but runs every operation on tx.
func (p *Postgres) cloneWithTx(tx *gorm.DB) *Postgres {
	clone := &Postgres{
		cfg:             p.cfg,
		logger:          p.logger,
		shutdownSignal:  p.shutdownSignal,
		retryChanSignal: p.retryChanSignal,
	}
	clone.client.Store(tx)
	return clone
}

// Transaction executes fn within a database transaction.
// If fn returns an error the transaction is rolled back; otherwise it is committed.
//
// Example usage:
//
//	err := pg.Transaction(ctx, func(tx postgres.Client) error {
//		if _, err := tx.Exec(ctx, "DELETE FROM superheroes"); err != nil {
//			return err
//		}
//		return tx.Create(ctx, &heroes)
//	})
func (p *Postgres) Transaction(ctx context.Context, fn func(tx Client) error) error {
	return p.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(p.cloneWithTx(tx))
	})
}
