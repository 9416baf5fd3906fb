package services

import (
	"callerinfo/models"
	"callerinfo/store"
)

// RecordStore is the part of store.Store the services depend on.
// Interface for testability - production uses *store.Store
type RecordStore interface {
	FetchCalls() *store.Pending[[]models.CallRecord]
	SaveCall(call models.CallRecord)
	FindCaller(number string) *store.Pending[*models.Caller]
	FindMarked(number string) *store.Pending[*models.MarkedRecord]
	SaveMarked(rec models.MarkedRecord)
	PromoteMarked(rec models.MarkedRecord)
	MarkReported(number string)
}

var _ RecordStore = (*store.Store)(nil)
