package library

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPenaltyZeroWithoutRequests(t *testing.T) {
	s := testStore(t)
	user := seedStudent(t, s)

	penalty, err := s.Penalty(user.ID)
	require.NoError(t, err)
	require.Zero(t, penalty)
}

func TestPenaltyZeroWhenReturnedOnTime(t *testing.T) {
	s := testStore(t) // LoanPeriodDays: 14, PenaltyRate: 10
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	fixedClock(s, start)

	user := seedStudent(t, s)
	book := addBook(t, s, "On Time")
	request, err := s.Reserve(user.ID, book.ID)
	require.NoError(t, err)

	// Returned exactly on the deadline.
	fixedClock(s, start.AddDate(0, 0, 14))
	_, err = s.Return(request.ID)
	require.NoError(t, err)

	penalty, err := s.Penalty(user.ID)
	require.NoError(t, err)
	require.Zero(t, penalty)
}

func TestPenaltyAccruesOnOutstandingRequest(t *testing.T) {
	s := testStore(t)
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	fixedClock(s, start)

	user := seedStudent(t, s)
	book := addBook(t, s, "Still Out")
	_, err := s.Reserve(user.ID, book.ID)
	require.NoError(t, err)

	// Not yet due.
	fixedClock(s, start.AddDate(0, 0, 10))
	penalty, err := s.Penalty(user.ID)
	require.NoError(t, err)
	require.Zero(t, penalty)

	// Two days past the deadline, still outstanding: the clock runs.
	fixedClock(s, start.AddDate(0, 0, 16))
	penalty, err = s.Penalty(user.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2*10, penalty)
}

func TestPenaltyStaysAfterLateReturn(t *testing.T) {
	s := testStore(t)
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	fixedClock(s, start)

	user := seedStudent(t, s)
	book := addBook(t, s, "Came Back Late")
	request, err := s.Reserve(user.ID, book.ID)
	require.NoError(t, err)

	// Returned six days late.
	fixedClock(s, start.AddDate(0, 0, 20))
	_, err = s.Return(request.ID)
	require.NoError(t, err)

	penalty, err := s.Penalty(user.ID)
	require.NoError(t, err)
	require.EqualValues(t, 6*10, penalty)

	// Liability is frozen at the return date; later days add nothing.
	fixedClock(s, start.AddDate(0, 0, 60))
	penalty, err = s.Penalty(user.ID)
	require.NoError(t, err)
	require.EqualValues(t, 6*10, penalty)
}

func TestPenaltySumsAcrossRequests(t *testing.T) {
	s := testStore(t)
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	fixedClock(s, start)

	user := seedStudent(t, s)

	// Request one: returned three days late.
	first := addBook(t, s, "First Late")
	r1, err := s.Reserve(user.ID, first.ID)
	require.NoError(t, err)
	fixedClock(s, start.AddDate(0, 0, 17))
	_, err = s.Return(r1.ID)
	require.NoError(t, err)

	// Request two: reserved later, outstanding and five days overdue.
	second := addBook(t, s, "Second Late")
	fixedClock(s, start.AddDate(0, 0, 20))
	_, err = s.Reserve(user.ID, second.ID)
	require.NoError(t, err)
	fixedClock(s, start.AddDate(0, 0, 39))

	penalty, err := s.Penalty(user.ID)
	require.NoError(t, err)
	require.EqualValues(t, (3+5)*10, penalty)
}
