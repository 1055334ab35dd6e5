package export

import "time"

// SetNow pins the clock used for file names and backup timestamps.
func (s *Service) SetNow(now func() time.Time) {
	s.now = now
}
