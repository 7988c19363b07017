package services

import (
	"gorm.io/gorm"

	"github.com/yungbote/interviewprep-backend/internal/pkg/dbctx"
)

// inTx runs fn inside dbc.Tx when the caller already opened one, otherwise in a new transaction.
func inTx(dbc dbctx.Context, db *gorm.DB, fn func(txc dbctx.Context) error) error {
	if dbc.Tx != nil {
		return fn(dbc)
	}
	return db.WithContext(dbc.Context()).Transaction(func(tx *gorm.DB) error {
		return fn(dbc.WithTx(tx))
	})
}
