package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ddgos/booking-manager/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SQLStore struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

var _ Store = (*SQLStore)(nil)

func NewSQLStore(db *gorm.DB, logger *zap.SugaredLogger) *SQLStore {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &SQLStore{db: db, log: logger}
}

const pingTimeout = 2 * time.Second

// Ping checks that the connection can reach the database. Opening a file
// database is lazy, so this is where a bad path surfaces.
func (s *SQLStore) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("%w: store has no connection", ErrStorage)
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		s.log.Errorf("database ping failed: %v", err)
		return fmt.Errorf("%w: ping: %w", ErrStorage, err)
	}
	return nil
}

// allDigits reports whether every character of name is an ASCII decimal digit.
// The empty string counts as all digits.
func allDigits(name string) bool {
	return strings.TrimLeft(name, "0123456789") == ""
}

// CreateResource inserts a resource and returns the id SQLite assigned to it.
func (s *SQLStore) CreateResource(ctx context.Context, name string) (int64, error) {
	if allDigits(name) {
		return 0, fmt.Errorf("%w: all characters of %q are digits", ErrInvalidInput, name)
	}

	resource := model.Resource{Name: name}
	err := s.db.WithContext(ctx).Create(&resource).Error
	if err != nil {
		if errors.Is(classify(err), ErrDuplicateName) {
			s.log.Infof("name %q already exists as a resource", name)
			s.log.Debugf("sqlite error message: %v", err)
			return 0, fmt.Errorf("%w: name %q already exists as a resource", ErrDuplicateName, name)
		}
		s.log.Errorf("unexpected error occurred while inserting resource %q: %v", name, err)
		return 0, fmt.Errorf("%w: inserting resource %q: %w", ErrStorage, name, err)
	}

	s.log.Infof("resource %q inserted with id %d", name, resource.ID)
	return resource.ID, nil
}

// FindResourceByName returns the id of the resource called name.
func (s *SQLStore) FindResourceByName(ctx context.Context, name string) (int64, error) {
	s.log.Infof("querying database for resource name %q", name)
	var resource model.Resource
	err := s.db.WithContext(ctx).
		Where("name = ?", name).
		Take(&resource).Error
	if err != nil {
		return 0, s.lookupError(err, "name", name)
	}
	return resource.ID, nil
}

// FindResourceByID returns the name of the resource with the given id.
func (s *SQLStore) FindResourceByID(ctx context.Context, id uint32) (string, error) {
	s.log.Infof("querying database for resource id %d", id)
	var resource model.Resource
	err := s.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&resource).Error
	if err != nil {
		return "", s.lookupError(err, "id", id)
	}
	return resource.Name, nil
}

// ListResources returns every resource ordered by id.
func (s *SQLStore) ListResources(ctx context.Context) ([]model.Resource, error) {
	var resources []model.Resource
	if err := s.db.WithContext(ctx).Order("id").Find(&resources).Error; err != nil {
		s.log.Errorf("failed to list resources: %v", err)
		return nil, fmt.Errorf("%w: listing resources: %w", ErrStorage, err)
	}
	return resources, nil
}

func (s *SQLStore) lookupError(err error, field string, value any) error {
	if errors.Is(classify(err), ErrNotFound) {
		return fmt.Errorf("%w: no resource with %s %v", ErrNotFound, field, value)
	}
	s.log.Errorf("error occurred while getting %s %v: %v", field, value, err)
	return fmt.Errorf("%w: getting resource by %s %v: %w", ErrStorage, field, value, err)
}
