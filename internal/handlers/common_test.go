package handlers

import (
	"errors"
	"net/http"
	"testing"

	"gameroom-backend/internal/services"
)

func TestStatusForDistinguishesRejections(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{services.ErrRoomNotFound, http.StatusNotFound},
		{services.ErrNotMember, http.StatusNotFound},
		{services.ErrForbidden, http.StatusForbidden},
		{services.ErrAlreadyMember, http.StatusConflict},
		{services.ErrRoomFull, http.StatusConflict},
		{services.ErrAlreadyStarted, http.StatusConflict},
		{services.ErrAlreadyAnswered, http.StatusConflict},
		{services.ErrAlreadyCompleted, http.StatusConflict},
		{services.ErrInvalidState, http.StatusUnprocessableEntity},
		{services.ErrInsufficientPlayers, http.StatusUnprocessableEntity},
		{services.ErrNotAllReady, http.StatusUnprocessableEntity},
		{services.ErrNoQuestions, http.StatusServiceUnavailable},
		{errors.New("database on fire"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := statusFor(tc.err); got != tc.want {
			t.Errorf("statusFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
