package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"squash-courts/backend/internal/cache"
	"squash-courts/backend/internal/config"
	"squash-courts/backend/internal/domain/booking"
	"squash-courts/backend/internal/domain/booking/mocks"
	"squash-courts/backend/internal/domain/catalog"
	"squash-courts/backend/internal/domain/schedule"
	"squash-courts/backend/internal/handlers"
	apihttp "squash-courts/backend/internal/http"
	"squash-courts/backend/internal/otel"
)

type fakeVerifier map[string]*auth.Token

func (f fakeVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	if tok, ok := f[idToken]; ok {
		return tok, nil
	}
	return nil, errors.New("token invalid")
}

var verifier = fakeVerifier{
	"admin-token": {UID: "admin-1", Claims: map[string]any{"admin": true}},
	"user-token":  {UID: "user-1", Claims: map[string]any{"phone_number": "+201001234567"}},
}

type noClaims struct{}

func (noClaims) SetCustomUserClaims(context.Context, string, map[string]interface{}) error {
	return nil
}

type emptyCatalog struct{}

func (emptyCatalog) List(context.Context, catalog.Kind) ([]catalog.Item, error) {
	return []catalog.Item{}, nil
}

func (emptyCatalog) Get(context.Context, catalog.Kind, string) (catalog.Item, error) {
	return nil, catalog.ErrNotFound
}

func (emptyCatalog) Create(context.Context, catalog.Kind, catalog.Item) (string, error) {
	return "prod-1", nil
}

func (emptyCatalog) Update(context.Context, catalog.Kind, string, map[string]any) error {
	return catalog.ErrNotFound
}

func (emptyCatalog) Delete(context.Context, catalog.Kind, string) error {
	return nil
}

const friday = "2024-01-05"

func approved(id, start string, rt schedule.ReservationType, created time.Time) booking.Booking {
	return booking.Booking{
		ID:              id,
		FullName:        "Peer",
		Court:           1,
		Date:            friday,
		StartTime:       start,
		ReservationType: rt,
		Status:          booking.StatusApproved,
		CreatedAt:       created,
	}
}

func newTestRouter(t *testing.T, bookings []booking.Booking) (http.Handler, *mocks.MockStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)

	feed := booking.NewFeed()
	feed.ReplaceBookings(bookings)

	var cfg config.Config
	cfg.App.CORS.AllowedOrigins = "http://localhost:5173"

	c := cache.New(nil, otel.Noop())
	router := apihttp.NewRouter(apihttp.RouterDeps{
		Cfg:        cfg,
		Verifier:   verifier,
		Cache:      c,
		BookingSvc: booking.NewService(feed, store),
		CatalogSvc: catalog.NewService(emptyCatalog{}, c),
		Uploads:    handlers.NewUploads(cfg, nil, nil),
		Claims:     handlers.NewClaims(noClaims{}),
	})
	return router, store
}

func do(h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	w := do(router, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["ok"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestAvailability(t *testing.T) {
	router, _ := newTestRouter(t, []booking.Booking{approved("a", "4:00 PM", schedule.OneHour, time.Now())})

	w := do(router, http.MethodGet, "/v1/availability?date="+friday, "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Slots []booking.SlotAvailability `json:"slots"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Slots, schedule.DefaultGrid.Len()*len(schedule.Courts))
	for _, s := range body.Slots {
		taken := s.Time == "4:00 PM" && s.Court == 1
		assert.Equal(t, !taken, s.Available, "%s court %d", s.Time, s.Court)
	}

	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodGet, "/v1/availability?date=05/01/2024", "", "").Code)
}

func TestSuggestions(t *testing.T) {
	router, _ := newTestRouter(t, []booking.Booking{approved("a", "1:00 PM", schedule.TwoHours, time.Now())})

	w := do(router, http.MethodGet, "/v1/availability/suggestions?date="+friday+"&court=1&duration=1&max=2", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"3:00 PM - 3:00 PM", "4:00 PM - 4:00 PM"}, decode(t, w)["suggestions"])

	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodGet, "/v1/availability/suggestions?date="+friday+"&court=3&duration=1", "", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodGet, "/v1/availability/suggestions?date="+friday+"&court=1&duration=0", "", "").Code)
}

func TestSubmitBooking_ConflictReturnsSuggestions(t *testing.T) {
	router, _ := newTestRouter(t, []booking.Booking{approved("a", "4:00 PM", schedule.OneHour, time.Now())})

	body := `{"fullName":"Omar","phoneNumber":"01001234567","court":1,"date":"2024-01-05","startTime":"4:00 PM","reservationType":"1hour"}`
	w := do(router, http.MethodPost, "/v1/bookings", "", body)

	require.Equal(t, http.StatusConflict, w.Code)
	var out struct {
		Message     string   `json:"message"`
		Suggestions []string `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Contains(t, out.Message, "already booked")
	assert.Equal(t, []string{"1:00 PM - 1:00 PM", "2:00 PM - 2:00 PM", "3:00 PM - 3:00 PM"}, out.Suggestions)
}

func TestSubmitBooking_AttachesVerifiedUser(t *testing.T) {
	router, store := newTestRouter(t, nil)

	store.EXPECT().CreateBooking(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, b booking.Booking) (string, error) {
			assert.Equal(t, "user-1", b.UserID)
			assert.Equal(t, "+201001234567", b.UserPhone)
			assert.Equal(t, booking.StatusPending, b.Status)
			return "bk-1", nil
		})
	store.EXPECT().ListBookingsByDateCourt(gomock.Any(), friday, schedule.Court(1)).Return(nil, nil)

	body := `{"fullName":"Omar","phoneNumber":"01001234567","court":1,"date":"2024-01-05","startTime":"4:00 PM","reservationType":"2hours"}`
	w := do(router, http.MethodPost, "/v1/bookings", "user-token", body)

	require.Equal(t, http.StatusCreated, w.Code)
	out := decode(t, w)
	assert.Equal(t, "bk-1", out["id"])
	assert.Equal(t, "6:00 PM", out["endTime"])
}

func TestSubmitBooking_BadInput(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	cases := map[string]string{
		"unknown field": `{"fullName":"Omar","userId":"spoofed"}`,
		"not json":      `fullName=Omar`,
		"missing name":  `{"phoneNumber":"01001234567","court":1,"date":"2024-01-05","startTime":"4:00 PM","reservationType":"1hour"}`,
		"bad court":     `{"fullName":"Omar","phoneNumber":"01001234567","court":3,"date":"2024-01-05","startTime":"4:00 PM","reservationType":"1hour"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPost, "/v1/bookings", "", body).Code)
		})
	}

	assert.Equal(t, http.StatusUnauthorized, do(router, http.MethodPost, "/v1/bookings", "forged", `{}`).Code)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	assert.Equal(t, http.StatusUnauthorized, do(router, http.MethodGet, "/v1/admin/bookings", "", "").Code)
	assert.Equal(t, http.StatusForbidden, do(router, http.MethodGet, "/v1/admin/bookings", "user-token", "").Code)
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/v1/admin/bookings", "admin-token", "").Code)
}

func TestAdminListBookings_NewestFirstWithFilters(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	older := approved("older", "1:00 PM", schedule.OneHour, t0)
	newer := approved("newer", "5:00 PM", schedule.OneHour, t0.Add(time.Hour))
	pending := approved("pending", "8:00 PM", schedule.OneHour, t0.Add(2*time.Hour))
	pending.Status = booking.StatusPending
	router, _ := newTestRouter(t, []booking.Booking{older, pending, newer})

	ids := func(w *httptest.ResponseRecorder) []string {
		var body struct {
			Bookings []booking.Booking `json:"bookings"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		out := []string{}
		for _, b := range body.Bookings {
			out = append(out, b.ID)
		}
		return out
	}

	assert.Equal(t, []string{"pending", "newer", "older"}, ids(do(router, http.MethodGet, "/v1/admin/bookings", "admin-token", "")))
	assert.Equal(t, []string{"newer", "older"}, ids(do(router, http.MethodGet, "/v1/admin/bookings?status=approved", "admin-token", "")))
	assert.Empty(t, ids(do(router, http.MethodGet, "/v1/admin/bookings?date=2024-01-06", "admin-token", "")))
}

func TestAdminListBookings_CourtSearchAndTotal(t *testing.T) {
	mona := approved("mona", "1:00 PM", schedule.OneHour, time.Now())
	mona.FullName, mona.PhoneNumber, mona.Price = "Mona Adel", "01001112222", 150
	omar := approved("omar", "1:00 PM", schedule.TwoHours, time.Now())
	omar.FullName, omar.PhoneNumber, omar.Price, omar.Court = "Omar Hassan", "01203334444", 300, 2
	router, _ := newTestRouter(t, []booking.Booking{mona, omar})

	list := func(query string) booking.BookingList {
		w := do(router, http.MethodGet, "/v1/admin/bookings"+query, "admin-token", "")
		require.Equal(t, http.StatusOK, w.Code)
		var out booking.BookingList
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		return out
	}

	assert.Equal(t, 450, list("").Total)

	byCourt := list("?court=2")
	require.Len(t, byCourt.Bookings, 1)
	assert.Equal(t, "omar", byCourt.Bookings[0].ID)
	assert.Equal(t, 300, byCourt.Total)

	bySearch := list("?q=mona")
	require.Len(t, bySearch.Bookings, 1)
	assert.Equal(t, 150, bySearch.Total)

	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodGet, "/v1/admin/bookings?court=3", "admin-token", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodGet, "/v1/admin/bookings?court=x", "admin-token", "").Code)
}

func TestAdminIncome(t *testing.T) {
	b := approved("a", "1:00 PM", schedule.OneHour, time.Now())
	b.Price = 150
	router, _ := newTestRouter(t, []booking.Booking{b})

	w := do(router, http.MethodGet, "/v1/admin/income", "admin-token", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(150), decode(t, w)["total"])

	assert.Equal(t, http.StatusForbidden, do(router, http.MethodGet, "/v1/admin/income", "user-token", "").Code)
}

func TestAdminStatusUnknownBooking(t *testing.T) {
	router, store := newTestRouter(t, nil)
	store.EXPECT().GetBooking(gomock.Any(), "ghost").Return(nil, booking.ErrNotFound)

	w := do(router, http.MethodPatch, "/v1/admin/bookings/ghost/status", "admin-token", `{"status":"canceled"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMyBookings(t *testing.T) {
	mine := approved("mine", "1:00 PM", schedule.OneHour, time.Now())
	mine.UserID = "user-1"
	byPhone := approved("by-phone", "3:00 PM", schedule.OneHour, time.Now())
	byPhone.PhoneNumber = "+201001234567"
	theirs := approved("theirs", "5:00 PM", schedule.OneHour, time.Now())
	theirs.UserID = "someone-else"
	router, store := newTestRouter(t, []booking.Booking{mine, byPhone, theirs})

	w := do(router, http.MethodGet, "/v1/me/bookings", "user-token", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Bookings []booking.Booking `json:"bookings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	got := []string{}
	for _, b := range body.Bookings {
		got = append(got, b.ID)
	}
	assert.ElementsMatch(t, []string{"mine", "by-phone"}, got)

	assert.Equal(t, http.StatusUnauthorized, do(router, http.MethodGet, "/v1/me/bookings", "", "").Code)

	store.EXPECT().DeleteBooking(gomock.Any(), "mine").Return(nil)
	assert.Equal(t, http.StatusNoContent, do(router, http.MethodDelete, "/v1/me/bookings/mine", "user-token", "").Code)
	assert.Equal(t, http.StatusForbidden, do(router, http.MethodDelete, "/v1/me/bookings/theirs", "user-token", "").Code)
}

func TestAdminApproveConflict(t *testing.T) {
	self := approved("self", "6:00 PM", schedule.OneHour, time.Now())
	self.Status = booking.StatusPending
	peer := approved("peer", "5:00 PM", schedule.TwoHours, time.Now())
	router, _ := newTestRouter(t, []booking.Booking{self, peer})

	w := do(router, http.MethodPatch, "/v1/admin/bookings/self/status", "admin-token", `{"status":"approved"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(router, http.MethodPatch, "/v1/admin/bookings/self/status", "admin-token", `{"status":"done"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminCancelAndDelete(t *testing.T) {
	router, store := newTestRouter(t, []booking.Booking{approved("a", "4:00 PM", schedule.OneHour, time.Now())})

	store.EXPECT().UpdateBooking(gomock.Any(), "a", map[string]any{"status": "canceled"}).Return(nil)
	store.EXPECT().DeleteBooking(gomock.Any(), "a").Return(nil)

	w := do(router, http.MethodPatch, "/v1/admin/bookings/a/status", "admin-token", `{"status":"canceled"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(router, http.MethodDelete, "/v1/admin/bookings/a", "admin-token", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAdminRecurring(t *testing.T) {
	router, store := newTestRouter(t, []booking.Booking{approved("a", "4:00 PM", schedule.OneHour, time.Now())})

	// Fridays at 4:00 PM collide with the one-time booking above.
	body := `{"court":1,"dayOfWeek":"Friday","startTime":"4:00 PM","duration":2,"fullName":"League","phoneNumber":"0100"}`
	w := do(router, http.MethodPost, "/v1/admin/recurring", "admin-token", body)
	assert.Equal(t, http.StatusConflict, w.Code)

	store.EXPECT().CreateRecurring(gomock.Any(), gomock.Any()).Return("rec-1", nil)
	body = `{"court":1,"dayOfWeek":"Saturday","startTime":"4:00 PM","duration":2,"fullName":"League","phoneNumber":"0100"}`
	w = do(router, http.MethodPost, "/v1/admin/recurring", "admin-token", body)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "rec-1", decode(t, w)["id"])

	w = do(router, http.MethodGet, "/v1/admin/recurring", "admin-token", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCatalogRoutes(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	w := do(router, http.MethodGet, "/v1/catalog/products", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{}, decode(t, w)["items"])

	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodGet, "/v1/catalog/rackets", "", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPost, "/v1/admin/catalog/rackets", "admin-token", `{}`).Code)

	w = do(router, http.MethodPost, "/v1/admin/catalog/products", "admin-token", `{"name":"  Grip tape ","price":40}`)
	require.Equal(t, http.StatusCreated, w.Code)
	out := decode(t, w)
	assert.Equal(t, "prod-1", out["id"])
	assert.Equal(t, "Grip tape", out["name"])

	w = do(router, http.MethodPatch, "/v1/admin/catalog/products/missing", "admin-token", `{"price":45}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(router, http.MethodDelete, "/v1/admin/catalog/products/prod-1", "admin-token", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestUploadsDisabledWithoutSigner(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	body := `{"kind":"products","fileName":"ball.png","contentType":"image/png"}`
	w := do(router, http.MethodPost, "/v1/admin/uploads/signed-url", "admin-token", body)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMe(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	w := do(router, http.MethodGet, "/v1/me", "admin-token", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["admin"])
}
