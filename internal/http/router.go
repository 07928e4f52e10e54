package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"squash-courts/backend/internal/authctx"
	"squash-courts/backend/internal/cache"
	"squash-courts/backend/internal/config"
	"squash-courts/backend/internal/domain/booking"
	"squash-courts/backend/internal/domain/catalog"
	"squash-courts/backend/internal/domain/schedule"
	"squash-courts/backend/internal/handlers"
	"squash-courts/backend/internal/httpjson"
	"squash-courts/backend/internal/middleware"
)

type RouterDeps struct {
	Cfg        config.Config
	Verifier   middleware.TokenVerifier
	Cache      cache.Cache
	BookingSvc *booking.Service
	CatalogSvc *catalog.Service
	Uploads    *handlers.Uploads
	Claims     *handlers.Claims
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLog)
	r.Use(middleware.CORS(d.Cfg.AllowedOrigins()))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, 200, map[string]any{"ok": true, "ts": time.Now().UTC().Format(time.RFC3339)})
	})

	// ===== Public: availability and booking form =====
	r.Get("/v1/reservation-types", func(w http.ResponseWriter, _ *http.Request) {
		det := d.BookingSvc.Detector()
		WriteJSON(w, 200, map[string]any{
			"slots":            det.Grid().Labels(),
			"courts":           schedule.Courts,
			"reservationTypes": det.Catalog(),
		})
	})

	r.Get("/v1/availability", func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		out, err := d.BookingSvc.AvailableSlots(date)
		if err != nil {
			failBooking(w, r, err)
			return
		}
		WriteJSON(w, 200, map[string]any{"date": date, "slots": out})
	})

	r.Get("/v1/availability/suggestions", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		date, err := schedule.ParseDate(q.Get("date"))
		if err != nil {
			Fail(w, 400, err.Error())
			return
		}
		courtN, err := strconv.Atoi(q.Get("court"))
		if err != nil {
			Fail(w, 400, "court must be a number")
			return
		}
		court, err := schedule.ParseCourt(courtN)
		if err != nil {
			Fail(w, 400, err.Error())
			return
		}
		duration, err := strconv.Atoi(q.Get("duration"))
		if err != nil || duration < 1 {
			Fail(w, 400, "duration must be a positive number of slots")
			return
		}
		maxResults := 0
		if s := q.Get("max"); s != "" {
			if maxResults, err = strconv.Atoi(s); err != nil {
				Fail(w, 400, "max must be a number")
				return
			}
		}
		WriteJSON(w, 200, map[string]any{
			"suggestions": d.BookingSvc.SuggestAlternatives(date, court, duration, maxResults),
		})
	})

	r.With(
		middleware.RateLimit(d.Cfg, d.Cache),
		middleware.WithOptionalAuth(d.Verifier),
	).Post("/v1/bookings", func(w http.ResponseWriter, r *http.Request) {
		var in booking.BookingRequest
		if err := httpjson.Read(r, &in); err != nil {
			failBooking(w, r, err)
			return
		}
		if u, ok := authctx.FromContext(r.Context()); ok {
			in.UserID = u.UID
			in.UserPhone = u.PhoneNumber
		}

		out, err := d.BookingSvc.SubmitBooking(r.Context(), in)
		if err != nil {
			failBooking(w, r, err)
			return
		}
		WriteJSON(w, 201, out)
	})

	// ===== Public: site content =====
	r.Get("/v1/catalog/{kind}", func(w http.ResponseWriter, r *http.Request) {
		kind, err := catalog.ParseKind(chi.URLParam(r, "kind"))
		if err != nil {
			failCatalog(w, r, err)
			return
		}
		items, err := d.CatalogSvc.List(r.Context(), kind)
		if err != nil {
			failCatalog(w, r, err)
			return
		}
		WriteJSON(w, 200, map[string]any{"items": items})
	})

	// Protected routes
	r.Group(func(pr chi.Router) {
		pr.Use(middleware.WithAuth(d.Verifier))

		pr.Get("/v1/me", d.Claims.Me)

		pr.Get("/v1/me/bookings", func(w http.ResponseWriter, r *http.Request) {
			u, _ := authctx.FromContext(r.Context())
			owner := booking.Owner{UID: u.UID, Phone: u.PhoneNumber}
			WriteJSON(w, 200, map[string]any{"bookings": d.BookingSvc.MyBookings(owner)})
		})

		pr.Delete("/v1/me/bookings/{id}", func(w http.ResponseWriter, r *http.Request) {
			u, _ := authctx.FromContext(r.Context())
			owner := booking.Owner{UID: u.UID, Phone: u.PhoneNumber}
			if err := d.BookingSvc.CancelOwnBooking(r.Context(), owner, chi.URLParam(r, "id")); err != nil {
				failBooking(w, r, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})

		// ===== Admin dashboard =====
		pr.Group(func(ar chi.Router) {
			ar.Use(middleware.RequireAdmin)

			ar.Get("/v1/admin/bookings", func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				f := booking.BookingFilter{
					Status: booking.Status(strings.TrimSpace(q.Get("status"))),
					Date:   strings.TrimSpace(q.Get("date")),
					Query:  q.Get("q"),
				}
				if s := strings.TrimSpace(q.Get("court")); s != "" {
					n, err := strconv.Atoi(s)
					if err != nil {
						Fail(w, 400, "court must be a number")
						return
					}
					court, err := schedule.ParseCourt(n)
					if err != nil {
						Fail(w, 400, err.Error())
						return
					}
					f.Court = court
				}
				WriteJSON(w, 200, d.BookingSvc.ListBookings(f))
			})

			ar.Get("/v1/admin/income", func(w http.ResponseWriter, _ *http.Request) {
				WriteJSON(w, 200, d.BookingSvc.Income())
			})

			ar.Patch("/v1/admin/bookings/{id}/status", func(w http.ResponseWriter, r *http.Request) {
				var in struct {
					Status string `json:"status" validate:"required,oneof=pending approved canceled"`
				}
				if err := httpjson.Read(r, &in); err != nil {
					failBooking(w, r, err)
					return
				}
				id := chi.URLParam(r, "id")
				if err := d.BookingSvc.SetBookingStatus(r.Context(), id, booking.Status(in.Status)); err != nil {
					failBooking(w, r, err)
					return
				}
				WriteJSON(w, 200, map[string]any{"id": id, "status": in.Status})
			})

			ar.Delete("/v1/admin/bookings/{id}", func(w http.ResponseWriter, r *http.Request) {
				if err := d.BookingSvc.DeleteBooking(r.Context(), chi.URLParam(r, "id")); err != nil {
					failBooking(w, r, err)
					return
				}
				w.WriteHeader(http.StatusNoContent)
			})

			ar.Get("/v1/admin/recurring", func(w http.ResponseWriter, _ *http.Request) {
				WriteJSON(w, 200, map[string]any{"recurring": d.BookingSvc.RecurringOverview()})
			})

			ar.Post("/v1/admin/recurring", func(w http.ResponseWriter, r *http.Request) {
				var in booking.CreateRecurringInput
				if err := httpjson.Read(r, &in); err != nil {
					failBooking(w, r, err)
					return
				}
				out, err := d.BookingSvc.AddRecurring(r.Context(), in)
				if err != nil {
					failBooking(w, r, err)
					return
				}
				WriteJSON(w, 201, out)
			})

			ar.Patch("/v1/admin/recurring/{id}", func(w http.ResponseWriter, r *http.Request) {
				var in booking.UpdateRecurringInput
				if err := httpjson.Read(r, &in); err != nil {
					failBooking(w, r, err)
					return
				}
				id := chi.URLParam(r, "id")
				if err := d.BookingSvc.UpdateRecurring(r.Context(), id, in); err != nil {
					failBooking(w, r, err)
					return
				}
				WriteJSON(w, 200, map[string]any{"id": id, "success": true})
			})

			ar.Delete("/v1/admin/recurring/{id}", func(w http.ResponseWriter, r *http.Request) {
				if err := d.BookingSvc.DeleteRecurring(r.Context(), chi.URLParam(r, "id")); err != nil {
					failBooking(w, r, err)
					return
				}
				w.WriteHeader(http.StatusNoContent)
			})

			ar.Post("/v1/admin/catalog/{kind}", func(w http.ResponseWriter, r *http.Request) {
				kind, err := catalog.ParseKind(chi.URLParam(r, "kind"))
				if err != nil {
					failCatalog(w, r, err)
					return
				}
				item, err := catalog.New(kind)
				if err != nil {
					failCatalog(w, r, err)
					return
				}
				if err := httpjson.Read(r, item); err != nil {
					failCatalog(w, r, err)
					return
				}
				out, err := d.CatalogSvc.Create(r.Context(), kind, item)
				if err != nil {
					failCatalog(w, r, err)
					return
				}
				WriteJSON(w, 201, out)
			})

			ar.Patch("/v1/admin/catalog/{kind}/{id}", func(w http.ResponseWriter, r *http.Request) {
				kind, err := catalog.ParseKind(chi.URLParam(r, "kind"))
				if err != nil {
					failCatalog(w, r, err)
					return
				}
				updates, err := httpjson.ReadMap(r)
				if err != nil {
					failCatalog(w, r, err)
					return
				}
				delete(updates, "id")
				id := chi.URLParam(r, "id")
				if err := d.CatalogSvc.Update(r.Context(), kind, id, updates); err != nil {
					failCatalog(w, r, err)
					return
				}
				WriteJSON(w, 200, map[string]any{"id": id, "success": true})
			})

			ar.Delete("/v1/admin/catalog/{kind}/{id}", func(w http.ResponseWriter, r *http.Request) {
				kind, err := catalog.ParseKind(chi.URLParam(r, "kind"))
				if err != nil {
					failCatalog(w, r, err)
					return
				}
				if err := d.CatalogSvc.Delete(r.Context(), kind, chi.URLParam(r, "id")); err != nil {
					failCatalog(w, r, err)
					return
				}
				w.WriteHeader(http.StatusNoContent)
			})

			ar.Post("/v1/admin/uploads/signed-url", d.Uploads.CreateSignedUploadURL)
			ar.Post("/v1/admin/claims", d.Claims.SetAdmin)
		})
	})

	return r
}
