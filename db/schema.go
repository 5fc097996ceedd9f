package db

import (
	"context"
	_ "embed"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	//go:embed sql/create/resource.sql
	createResourceSQL string

	//go:embed sql/create/booking.sql
	createBookingSQL string
)

// createStatements run in order; booking references resource.
var createStatements = []string{
	createResourceSQL,
	createBookingSQL,
}

// InitSchema creates the resource and booking tables. Every statement is
// CREATE ... IF NOT EXISTS, so running it against an initialized database
// leaves the schema untouched.
func InitSchema(ctx context.Context, conn *gorm.DB, logger *zap.SugaredLogger) error {
	for _, stmt := range createStatements {
		logger.Debugf("running SQL\n%s", stmt)
		if err := conn.WithContext(ctx).Exec(stmt).Error; err != nil {
			logger.Errorf("error %v occurred while running\n%s", err, stmt)
			return &SchemaError{Statement: stmt, Err: err}
		}
	}
	logger.Infof("schema initialized")
	return nil
}
