package domain

import (
	"fmt"
	"time"
)

// InProgressWindow how long before the start an appointment may be put in progress
const InProgressWindow = 30 * time.Minute

// TransitionReason identifies the rule that rejected a status change
type TransitionReason string

const (
	ReasonSameStatus         TransitionReason = "same_status"
	ReasonBlocked            TransitionReason = "blocked"
	ReasonInProgressTooEarly TransitionReason = "in_progress_too_early"
	ReasonInProgressTooLate  TransitionReason = "in_progress_too_late"
	ReasonCompletedTooEarly  TransitionReason = "completed_too_early"
	ReasonNoShowTooEarly     TransitionReason = "no_show_too_early"
	ReasonPassedAppointment  TransitionReason = "passed_appointment"
)

// StatusTransitionError is returned when a status change is not allowed
type StatusTransitionError struct {
	Reason  TransitionReason
	From    AppointmentStatus
	To      AppointmentStatus
	Message string
}

func (e *StatusTransitionError) Error() string {
	return e.Message
}

func (e *StatusTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

type statusSet map[AppointmentStatus]struct{}

func newStatusSet(statuses ...AppointmentStatus) statusSet {
	set := make(statusSet, len(statuses))
	for _, s := range statuses {
		set[s] = struct{}{}
	}
	return set
}

func (s statusSet) has(status AppointmentStatus) bool {
	_, ok := s[status]
	return ok
}

// blockedTransitions maps a current status to the targets that are never reachable from it.
// Statuses missing from the table are governed by the temporal rules only.
var blockedTransitions = map[AppointmentStatus]statusSet{
	StatusCompleted: newStatusSet(
		StatusPending, StatusConfirmed, StatusInProgress,
		StatusCancelledByClient, StatusCancelledByEstablishment, StatusNoShow, StatusRescheduled,
	),
	StatusCancelledByClient: newStatusSet(
		StatusPending, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusNoShow, StatusCancelledByEstablishment,
	),
	StatusCancelledByEstablishment: newStatusSet(
		StatusPending, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusNoShow, StatusCancelledByClient,
	),
	StatusNoShow: newStatusSet(
		StatusPending, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelledByClient, StatusCancelledByEstablishment, StatusRescheduled,
	),
	StatusRescheduled: newStatusSet(
		StatusConfirmed, StatusInProgress, StatusCompleted, StatusNoShow,
	),
}

// awaitingStatuses are the statuses of an appointment that has not been attended yet.
// Once such an appointment has passed it may only be completed or marked as no-show.
var awaitingStatuses = newStatusSet(StatusPending, StatusConfirmed, StatusRescheduled)

var passedTargets = newStatusSet(StatusCompleted, StatusNoShow)

// IsBlocked reports whether the static table forbids from -> to
func IsBlocked(from, to AppointmentStatus) bool {
	return blockedTransitions[from].has(to)
}

// ValidateStatusTransition checks whether appt may move to next at instant now.
// It returns a *StatusTransitionError describing the first violated rule.
func ValidateStatusTransition(appt *Appointment, next AppointmentStatus, now time.Time) error {
	current := appt.Status
	start := appt.StartTime

	if current == next {
		return transitionError(ReasonSameStatus, current, next, "appointment already has this status")
	}

	passed := appt.HasPassed(now)
	criticalPast := passed && awaitingStatuses.has(current)

	if criticalPast {
		if !passedTargets.has(next) {
			return transitionError(ReasonPassedAppointment, current, next,
				"an appointment whose time has passed can only be marked as completed or no-show")
		}
	} else if IsBlocked(current, next) {
		return blockedError(current, next)
	}

	switch next {
	case StatusCompleted:
		if now.Before(start) {
			return transitionError(ReasonCompletedTooEarly, current, next,
				"an appointment can only be completed after its start time")
		}
	case StatusInProgress:
		if now.Before(start.Add(-InProgressWindow)) {
			return transitionError(ReasonInProgressTooEarly, current, next,
				"an appointment can only be started up to 30 minutes before its scheduled time")
		}
		if now.After(start) {
			return transitionError(ReasonInProgressTooLate, current, next,
				"too late to start the appointment, complete it directly instead")
		}
	case StatusNoShow:
		if !criticalPast && now.Before(start) {
			return transitionError(ReasonNoShowTooEarly, current, next,
				"a no-show can only be recorded after the scheduled time")
		}
	}

	return nil
}

func blockedError(current, next AppointmentStatus) error {
	cancelled := current == StatusCancelledByClient || current == StatusCancelledByEstablishment

	switch {
	case current == StatusCompleted:
		return transitionError(ReasonBlocked, current, next, "a completed appointment cannot be altered")
	case cancelled && next == StatusCompleted:
		return transitionError(ReasonBlocked, current, next, "a cancelled appointment cannot be marked as completed")
	case cancelled && next == StatusNoShow:
		return transitionError(ReasonBlocked, current, next, "a cancelled appointment cannot be marked as no-show")
	case current == StatusNoShow && (next == StatusConfirmed || next == StatusPending):
		return transitionError(ReasonBlocked, current, next, "a no-show appointment cannot be confirmed again")
	default:
		return transitionError(ReasonBlocked, current, next,
			fmt.Sprintf("transition from '%s' to '%s' is not allowed", current, next))
	}
}

func transitionError(reason TransitionReason, from, to AppointmentStatus, msg string) *StatusTransitionError {
	return &StatusTransitionError{Reason: reason, From: from, To: to, Message: msg}
}
