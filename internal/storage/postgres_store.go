package storage

import (
	"database/sql"
	"encoding/json"

	_ "github.com/lib/pq"

	"github.com/example/nemt-pricing/internal/models"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	// quick ping
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (p *PostgresStore) SaveQuote(q *models.Quote) error {
	breakdown, err := json.Marshal(q.Breakdown)
	if err != nil {
		return err
	}
	summary, err := json.Marshal(q.Summary)
	if err != nil {
		return err
	}
	// Upsert: the server and the billing consumer may both write the same
	// quote ID, and a replayed event must not fail the sink.
	_, err = p.db.Exec(`INSERT INTO quotes(id, account_id, pickup_address, destination_address, pickup_at, total_cents, breakdown, summary, deposit_id, created_at)
		VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET total_cents=EXCLUDED.total_cents, breakdown=EXCLUDED.breakdown, summary=EXCLUDED.summary, deposit_id=EXCLUDED.deposit_id`,
		q.ID, q.AccountID, q.Request.PickupAddress, q.Request.DestinationAddress, q.Request.PickupAt,
		q.Breakdown.TotalCents, breakdown, summary, q.DepositID, q.CreatedAt)
	return err
}

func (p *PostgresStore) GetQuote(id string) (*models.Quote, error) {
	row := p.db.QueryRow(`SELECT id, account_id, pickup_address, destination_address, pickup_at, breakdown, summary, deposit_id, created_at FROM quotes WHERE id=$1`, id)
	var (
		q         models.Quote
		breakdown []byte
		summary   []byte
	)
	err := row.Scan(&q.ID, &q.AccountID, &q.Request.PickupAddress, &q.Request.DestinationAddress, &q.Request.PickupAt, &breakdown, &summary, &q.DepositID, &q.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(breakdown, &q.Breakdown); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(summary, &q.Summary); err != nil {
		return nil, err
	}
	return &q, nil
}

func (p *PostgresStore) UpdateQuote(q *models.Quote) error {
	res, err := p.db.Exec(`UPDATE quotes SET deposit_id=$1 WHERE id=$2`, q.DepositID, q.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
