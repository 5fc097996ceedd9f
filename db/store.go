package db

import (
	"context"

	"github.com/ddgos/booking-manager/model"
)

type Store interface {
	CreateResource(ctx context.Context, name string) (int64, error)
	FindResourceByName(ctx context.Context, name string) (int64, error)
	FindResourceByID(ctx context.Context, id uint32) (string, error)
	ListResources(ctx context.Context) ([]model.Resource, error)
	Ping(ctx context.Context) error
}
