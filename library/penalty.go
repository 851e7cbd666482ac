package library

// Penalty sums the overdue charges across the user's whole request history.
// Requests already returned stay liable for the days they were late; for
// outstanding requests the clock keeps running against today. The result is
// lateDays times the configured per-day rate, zero when nothing is late.
func (s *Store) Penalty(userID int64) (int64, error) {
	requests, err := s.RequestsByUser(userID)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, r := range requests {
		effectiveReturn := s.today()
		if r.ReturnDate.Valid {
			effectiveReturn = r.ReturnDate.Time
		}
		if late := daysBetween(r.ReturnDeadline, effectiveReturn); late > 0 {
			total += int64(late) * s.cfg.PenaltyRate
		}
	}
	return total, nil
}
