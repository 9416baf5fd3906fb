package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"callerinfo/models"
)

// Identification is everything known locally about a number
type Identification struct {
	Number string               `json:"number"`
	Caller *models.Caller       `json:"caller,omitempty"`
	Marked *models.MarkedRecord `json:"marked,omitempty"`
}

// Known reports whether any local record matched
func (id Identification) Known() bool {
	return id.Caller != nil || id.Marked != nil
}

// CallService combines store operations for call events and user marks
type CallService struct {
	store  RecordStore
	logger *slog.Logger
	now    func() time.Time
}

// NewCallService creates a new call service
func NewCallService(store RecordStore, logger *slog.Logger) *CallService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CallService{
		store:  store,
		logger: logger.With("component", "call_service"),
		now:    time.Now,
	}
}

// RecordIncoming stores a finished incoming call and looks the caller up.
// The lookup result is logged from the main loop once it arrives.
func (cs *CallService) RecordIncoming(number string, ringTime, duration int64) (models.CallRecord, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return models.CallRecord{}, ErrEmptyNumber
	}

	call := models.CallRecord{
		Number:   number,
		Time:     cs.now(),
		RingTime: ringTime,
		Duration: duration,
	}
	cs.store.SaveCall(call)

	cs.store.FindCaller(number).Then(func(caller *models.Caller, err error) {
		switch {
		case err != nil:
			cs.logger.Error("caller lookup failed", "number", number, "error", err)
		case caller == nil:
			cs.logger.Info("incoming call from unknown number", "number", number)
		default:
			cs.logger.Info("incoming call identified",
				"number", number,
				"name", caller.Name,
				"type", caller.Type,
			)
		}
	})

	return call, nil
}

// Identify looks number up in callers and marked records at the same time
func (cs *CallService) Identify(ctx context.Context, number string) (Identification, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return Identification{}, ErrEmptyNumber
	}

	callerResult := cs.store.FindCaller(number)
	markedResult := cs.store.FindMarked(number)

	caller, err := callerResult.Wait(ctx)
	if err != nil {
		return Identification{}, err
	}
	marked, err := markedResult.Wait(ctx)
	if err != nil {
		return Identification{}, err
	}

	return Identification{Number: number, Caller: caller, Marked: marked}, nil
}

// Mark saves the user's classification of a number and makes it visible
// as a caller entry right away.
func (cs *CallService) Mark(req models.SaveMarkedRequest) models.MarkedRecord {
	rec := models.MarkedRecord{
		ID:       req.ID,
		Number:   strings.TrimSpace(req.Number),
		Type:     req.Type,
		TypeName: req.TypeName,
		Time:     cs.now(),
		Reported: req.Reported,
		Source:   req.Source,
	}
	cs.store.SaveMarked(rec)
	cs.store.PromoteMarked(rec)
	return rec
}
