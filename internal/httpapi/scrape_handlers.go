package httpapi

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"

	"go.uber.org/zap"

	"leadgen-engine/internal/poll"
	"leadgen-engine/internal/scrape/types"
)

type ScrapeHandler struct {
	Poller       *poll.Poller
	ScrapeStatus *atomic.Value // types.ScrapeStatus
	Log          *zap.Logger
}

func (h ScrapeHandler) Status(w http.ResponseWriter, r *http.Request) {
	st, _ := h.ScrapeStatus.Load().(types.ScrapeStatus)
	writeJSON(w, st)
}

// Run starts a batch in the background; progress is reported through
// /scrape/status and the scrape_* events.
func (h ScrapeHandler) Run(w http.ResponseWriter, r *http.Request) {
	st, _ := h.ScrapeStatus.Load().(types.ScrapeStatus)
	if st.Running {
		WriteJSON(w, http.StatusConflict, map[string]any{"ok": false, "msg": "already running"})
		return
	}

	go func() {
		_, err := h.Poller.RunNow(context.Background())
		if errors.Is(err, poll.ErrAlreadyRunning) {
			h.Log.Info("scrape run skipped", zap.Error(err))
		}
	}()

	WriteJSON(w, http.StatusAccepted, map[string]any{"ok": true})
}
