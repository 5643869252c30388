package reservation

import (
	"errors"
	"net/http"

	"lessonbook/internal/api"
)

var (
	ErrInvalidTimeRange    = errors.New("end must be after start")
	ErrInvalidDuration     = errors.New("duration must be a positive multiple of 30 minutes")
	ErrLessonNotFound      = errors.New("lesson not found")
	ErrNoMembership        = errors.New("no active membership for this coach")
	ErrMembershipExpired   = errors.New("membership expires before the lesson starts")
	ErrInsufficientMinutes = errors.New("not enough remaining minutes")
	ErrTimeConflict        = errors.New("the requested time is already booked")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrForbidden           = errors.New("reservation belongs to another user")
	ErrAlreadyCanceled     = errors.New("reservation is already canceled")
	ErrCannotCancel        = errors.New("reservation can no longer be canceled")
	ErrPastReservation     = errors.New("reservation has already started")
	ErrInvalidTransition   = errors.New("status transition not allowed")
)

const (
	CodeInvalidTimeRange    = "INVALID_TIME_RANGE"
	CodeInvalidDuration     = "INVALID_DURATION"
	CodeLessonNotFound      = "LESSON_NOT_FOUND"
	CodeNoMembership        = "NO_MEMBERSHIP"
	CodeMembershipExpired   = "MEMBERSHIP_EXPIRED"
	CodeInsufficientMinutes = "INSUFFICIENT_MINUTES"
	CodeTimeConflict        = "TIME_CONFLICT"
	CodeAlreadyCanceled     = "ALREADY_CANCELED"
	CodeCannotCancel        = "CANNOT_CANCEL"
	CodePastReservation     = "PAST_RESERVATION"
	CodeInvalidTransition   = "INVALID_TRANSITION"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

var errorTable = []errorMapping{
	{ErrInvalidTimeRange, http.StatusBadRequest, CodeInvalidTimeRange},
	{ErrInvalidDuration, http.StatusBadRequest, CodeInvalidDuration},
	{ErrLessonNotFound, http.StatusNotFound, CodeLessonNotFound},
	{ErrNoMembership, http.StatusBadRequest, CodeNoMembership},
	{ErrMembershipExpired, http.StatusBadRequest, CodeMembershipExpired},
	{ErrInsufficientMinutes, http.StatusBadRequest, CodeInsufficientMinutes},
	{ErrTimeConflict, http.StatusConflict, CodeTimeConflict},
	{ErrReservationNotFound, http.StatusNotFound, api.CodeNotFound},
	{ErrForbidden, http.StatusForbidden, api.CodeForbidden},
	{ErrAlreadyCanceled, http.StatusBadRequest, CodeAlreadyCanceled},
	{ErrCannotCancel, http.StatusBadRequest, CodeCannotCancel},
	{ErrPastReservation, http.StatusBadRequest, CodePastReservation},
	{ErrInvalidTransition, http.StatusBadRequest, CodeInvalidTransition},
}

// Classify maps a reservation error to its HTTP status and error code.
// Unknown errors report ok == false.
func Classify(err error) (status int, code string, ok bool) {
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			return m.status, m.code, true
		}
	}
	return http.StatusInternalServerError, api.CodeServerError, false
}
