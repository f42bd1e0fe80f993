package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/CampusConnections/campus-service/internal/config"
	"github.com/CampusConnections/campus-service/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func DB(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	return pgxpool.New(ctx, connString("postgres", cfg))
}

func connString(scheme string, cfg config.DBConfig) string {
	return fmt.Sprintf(
		"%s://%s:%s@%s:%s/%s?sslmode=%s",
		scheme,
		cfg.Username,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.SSLMode,
	)
}

func New(db *pgxpool.Pool, logger *zap.Logger) repository.Store {
	return repository.Store{
		User:    newUserRepo(db),
		Club:    newClubRepo(db, logger),
		Post:    newPostRepo(db),
		Comment: newCommentRepo(db, logger),
	}
}

// updateQuery builds "UPDATE <table> SET a = $1, b = $2[, extra] WHERE id = $n".
func updateQuery(table string, updates map[string]interface{}, extra string) (string, []interface{}) {
	query := "UPDATE " + table + " SET "
	args := []interface{}{}
	i := 1

	for column, value := range updates {
		query += (column + " = $" + strconv.Itoa(i) + ", ")
		args = append(args, value)
		i++
	}

	if extra != "" {
		query += extra + ", "
	}

	query = query[:len(query)-2] + " WHERE id = $" + strconv.Itoa(i)
	return query, args
}

func rollback(ctx context.Context, tx pgx.Tx, logger *zap.Logger) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		logger.Sugar().Errorf("failed to rollback transaction: %s", err.Error())
	}
}
