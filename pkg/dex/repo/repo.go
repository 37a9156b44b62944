package repo

import (
	"gorm.io/gorm"
)

type IRepo interface {
	OrderEvent() IOrderEvent
	Trade() ITrade
}

type Repo struct {
	dexDB *gorm.DB
}

func NewRepo(dexDB *gorm.DB) IRepo {
	return &Repo{
		dexDB: dexDB,
	}
}

func (r *Repo) OrderEvent() IOrderEvent {
	return NewOrderEventSQLRepo(r.dexDB)
}

func (r *Repo) Trade() ITrade {
	return NewTradeSQLRepo(r.dexDB)
}
