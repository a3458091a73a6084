package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/weegigs/wee-ledger-go/we"
)

type StateRow struct {
	bun.BaseModel `bun:"table:contract_state"`

	Deployment    string `bun:"deployment,pk"`
	Revision      string `bun:"revision,notnull"`
	Timestamp     string `bun:"timestamp,notnull"`
	Encoding      string `bun:"encoding,notnull"`
	Data          []byte `bun:"data"`
	Method        string `bun:"method,nullzero"`
	Caller        string `bun:"caller,nullzero"`
	CorrelationId string `bun:"correlation_id,nullzero"`
}

// SQLStateStore keeps one row per deployment. Saves compare and swap the
// revision column inside a transaction.
type SQLStateStore struct {
	db       *bun.DB
	revision *we.RevisionGenerator
}

func NewStateStore(db *bun.DB) *SQLStateStore {
	return &SQLStateStore{db: db, revision: we.NewRevisionGenerator()}
}

// Open connects to a SQLite database and creates the state table. Use
// "file::memory:?cache=shared" for a throwaway database.
func Open(ctx context.Context, dsn string) (*SQLStateStore, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}
	sqldb.SetMaxOpenConns(1)

	store := NewStateStore(bun.NewDB(sqldb, sqlitedialect.New()))
	if err := store.CreateTable(ctx); err != nil {
		_ = sqldb.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLStateStore) CreateTable(ctx context.Context) error {
	_, err := s.db.NewCreateTable().Model((*StateRow)(nil)).IfNotExists().Exec(ctx)
	return err
}

func (s *SQLStateStore) Close() error {
	return s.db.Close()
}

func (s *SQLStateStore) Load(ctx context.Context, id we.DeploymentId) (we.StateRecord, error) {
	var row StateRow
	err := s.db.NewSelect().
		Model(&row).
		Where("deployment = ?", id.Encode().String()).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return we.EmptyRecord(id), nil
		}
		return we.StateRecord{}, err
	}

	return we.StateRecord{
		Deployment: id,
		Revision:   we.Revision(row.Revision),
		Timestamp:  we.Timestamp(row.Timestamp),
		State: we.Data{
			Encoding: row.Encoding,
			Data:     row.Data,
		},
		Metadata: we.RecordMetadata{
			Method:        we.MethodName(row.Method),
			Caller:        we.AccountId(row.Caller),
			CorrelationId: we.CorrelationID(row.CorrelationId),
		},
	}, nil
}

func (s *SQLStateStore) Save(ctx context.Context, id we.DeploymentId, state we.Data, options we.SaveOptions) (we.Revision, error) {
	now := time.Now()
	row := StateRow{
		Deployment:    id.Encode().String(),
		Revision:      s.revision.NewRevision(now).String(),
		Timestamp:     we.TimestampFromTime(now).String(),
		Encoding:      state.Encoding,
		Data:          state.Data,
		Method:        options.Method.String(),
		Caller:        options.Caller.String(),
		CorrelationId: options.CorrelationId.String(),
	}

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var current string
		err := tx.NewSelect().
			Model((*StateRow)(nil)).
			Column("revision").
			Where("deployment = ?", row.Deployment).
			Scan(ctx, &current)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		if err := we.CheckExpectedRevision(we.Revision(current), options.ExpectedRevision); err != nil {
			return err
		}

		var result sql.Result
		if current == "" {
			result, err = tx.NewInsert().Model(&row).On("CONFLICT (deployment) DO NOTHING").Exec(ctx)
		} else {
			result, err = tx.NewUpdate().
				Model(&row).
				WherePK().
				Where("revision = ?", current).
				Exec(ctx)
		}
		if err != nil {
			return err
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}

		if affected == 0 {
			return we.RevisionConflict
		}

		return nil
	})

	if err != nil {
		return "", err
	}

	return we.Revision(row.Revision), nil
}

func (s *SQLStateStore) Remove(ctx context.Context, id we.DeploymentId) error {
	_, err := s.db.NewDelete().
		Model((*StateRow)(nil)).
		Where("deployment = ?", id.Encode().String()).
		Exec(ctx)
	return err
}
