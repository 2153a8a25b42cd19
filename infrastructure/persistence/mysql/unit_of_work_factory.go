package mysql

import (
	"ddd-course/domain/shared"
	"ddd-course/infrastructure/persistence/retry"

	"gorm.io/gorm"
)

type UnitOfWorkFactory struct {
	db          *gorm.DB
	dispatcher  shared.EventDispatcher
	retryConfig retry.Config
}

func NewUnitOfWorkFactory(db *gorm.DB, dispatcher shared.EventDispatcher, retryConfig retry.Config) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{
		db:          db,
		dispatcher:  dispatcher,
		retryConfig: retryConfig,
	}
}

func (f *UnitOfWorkFactory) New() shared.UnitOfWork {
	uow := NewUnitOfWork(f.db, f.dispatcher)
	uow.SetRetryConfig(f.retryConfig)
	return uow
}

var _ shared.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)
