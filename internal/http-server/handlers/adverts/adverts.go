package adverts

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"finnparser/internal/apis/finn"
	"finnparser/internal/apis/finn/endpoints"
	"finnparser/internal/domain/models"
	"finnparser/internal/http-server/respond"
)

type Getter interface {
	GetAdvert(ctx context.Context, id string) (models.Advert, error)
}

type Options struct {
	Log     *slog.Logger
	Getter  Getter
	Timeout time.Duration
}

func NewGetHandler(opts Options) http.HandlerFunc {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if opts.Getter == nil {
			log.Error("adverts handler misconfigured: getter is nil")
			respond.WriteInternalError(w)
			return
		}

		id := strings.TrimSpace(mux.Vars(r)["id"])
		if id == "" {
			respond.WriteError(w, http.StatusBadRequest, "bad_request", "advert id is required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), opts.Timeout)
		defer cancel()

		advert, err := opts.Getter.GetAdvert(ctx, id)
		if err != nil {
			if finn.IsMissing(err) {
				respond.WriteError(w, http.StatusNotFound, "not_found", "advert "+id+" not found")
				return
			}
			if status := endpoints.StatusOf(err); status != 0 {
				log.Warn("GetAdvert upstream error", "advert_id", id, "status", status)
				respond.WriteError(w, http.StatusBadGateway, "upstream_error", err.Error())
				return
			}
			log.Error("GetAdvert failed", "err", err, "advert_id", id)
			respond.WriteInternalError(w)
			return
		}

		respond.WriteJSON(w, http.StatusOK, advert)
	}
}
