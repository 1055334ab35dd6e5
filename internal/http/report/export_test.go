package report

import "time"

func (h *Handler) SetNow(fn func() time.Time) {
	h.now = fn
}
