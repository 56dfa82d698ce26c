package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"parkbooking/internal/booking/service"
	"parkbooking/internal/domain"
	"parkbooking/internal/dto"
)

type mockBookingService struct {
	ListBookingsFunc           func(ctx context.Context) ([]*domain.Booking, error)
	ListBookingsByParkFunc     func(ctx context.Context, parkID uuid.UUID) ([]*domain.Booking, error)
	GetBookingFunc             func(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	CreateMultiDayBookingFunc  func(ctx context.Context, parkID uuid.UUID, guestName string, guests, dayCount int) (service.CreateResult, error)
	CreateSingleDayBookingFunc func(ctx context.Context, parkID uuid.UUID, guestName string, category domain.GuestCategory, date domain.Date) (service.CreateResult, error)
	CancelBookingFunc          func(ctx context.Context, id uuid.UUID) (bool, error)
	RemoveBookingFunc          func(ctx context.Context, id uuid.UUID) (bool, error)
}

func (m *mockBookingService) ListBookings(ctx context.Context) ([]*domain.Booking, error) {
	return m.ListBookingsFunc(ctx)
}

func (m *mockBookingService) ListBookingsByPark(ctx context.Context, parkID uuid.UUID) ([]*domain.Booking, error) {
	return m.ListBookingsByParkFunc(ctx, parkID)
}

func (m *mockBookingService) GetBooking(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	return m.GetBookingFunc(ctx, id)
}

func (m *mockBookingService) CreateMultiDayBooking(ctx context.Context, parkID uuid.UUID, guestName string, guests, dayCount int) (service.CreateResult, error) {
	return m.CreateMultiDayBookingFunc(ctx, parkID, guestName, guests, dayCount)
}

func (m *mockBookingService) CreateSingleDayBooking(ctx context.Context, parkID uuid.UUID, guestName string, category domain.GuestCategory, date domain.Date) (service.CreateResult, error) {
	return m.CreateSingleDayBookingFunc(ctx, parkID, guestName, category, date)
}

func (m *mockBookingService) CancelBooking(ctx context.Context, id uuid.UUID) (bool, error) {
	return m.CancelBookingFunc(ctx, id)
}

func (m *mockBookingService) RemoveBooking(ctx context.Context, id uuid.UUID) (bool, error) {
	return m.RemoveBookingFunc(ctx, id)
}

func newTestRouter(svc BookingService) http.Handler {
	c := NewBookingController(svc, zap.NewNop())
	r := chi.NewRouter()
	r.Get("/api/bookings", c.ListBookings)
	r.Get("/api/bookings/{id}", c.GetBooking)
	r.Delete("/api/bookings/{id}", c.DeleteBooking)
	r.Post("/api/bookings/{id}/cancel", c.CancelBooking)
	r.Get("/api/parks/{id}/bookings", c.ListParkBookings)
	r.Post("/api/parks/{id}/bookings", c.CreateBooking)
	return r
}

func doRequest(handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func newTestBooking(t *testing.T, parkID uuid.UUID) *domain.Booking {
	t.Helper()
	start := domain.NewDate(2031, 5, 1)
	b, err := domain.NewBooking(parkID, "Ada", 2, start, 2,
		domain.USD(decimal.NewFromInt(25)), []domain.Date{start, start.AddDays(1)}, domain.GuestCategoryAdult)
	require.NoError(t, err)
	return b
}

func TestBookingController_CreateBooking_MultiDay(t *testing.T) {
	parkID := uuid.New()
	booking := newTestBooking(t, parkID)

	var gotName string
	var gotGuests, gotDays int
	svc := &mockBookingService{
		CreateMultiDayBookingFunc: func(ctx context.Context, id uuid.UUID, guestName string, guests, dayCount int) (service.CreateResult, error) {
			assert.Equal(t, parkID, id)
			gotName, gotGuests, gotDays = guestName, guests, dayCount
			return service.CreateResult{Outcome: service.OutcomeCreated, Booking: booking}, nil
		},
	}

	rec := doRequest(newTestRouter(svc), http.MethodPost, "/api/parks/"+parkID.String()+"/bookings",
		`{"guestName":"Ada","guests":2,"dayCount":2}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/api/bookings/"+booking.ID.String(), rec.Header().Get("Location"))
	assert.Equal(t, "Ada", gotName)
	assert.Equal(t, 2, gotGuests)
	assert.Equal(t, 2, gotDays)

	var resp dto.BookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "100.00", resp.TotalPrice)
	assert.Equal(t, "25.00", resp.PricePerDay)
	assert.Equal(t, []string{"2031-05-01", "2031-05-02"}, resp.ReservedDates)
	assert.Equal(t, "PENDING", resp.Status)
}

func TestBookingController_CreateBooking_SingleDay(t *testing.T) {
	parkID := uuid.New()
	var gotCategory domain.GuestCategory
	var gotDate domain.Date
	svc := &mockBookingService{
		CreateSingleDayBookingFunc: func(ctx context.Context, id uuid.UUID, guestName string, category domain.GuestCategory, date domain.Date) (service.CreateResult, error) {
			gotCategory, gotDate = category, date
			b, err := domain.NewBooking(id, "Guest", 1, date, 1, domain.USD(decimal.NewFromInt(40)), []domain.Date{date}, category)
			require.NoError(t, err)
			return service.CreateResult{Outcome: service.OutcomeCreated, Booking: b}, nil
		},
	}

	rec := doRequest(newTestRouter(svc), http.MethodPost, "/api/parks/"+parkID.String()+"/bookings",
		`{"date":"2031-07-04","guestCategory":"child"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, domain.GuestCategoryChild, gotCategory)
	assert.Equal(t, domain.NewDate(2031, 7, 4), gotDate)
}

func TestBookingController_CreateBooking_Outcomes(t *testing.T) {
	tests := []struct {
		name       string
		outcome    service.Outcome
		wantStatus int
		wantCode   string
	}{
		{name: "park not found", outcome: service.OutcomeParkNotFound, wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "unavailable", outcome: service.OutcomeUnavailable, wantStatus: http.StatusConflict, wantCode: "UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockBookingService{
				CreateMultiDayBookingFunc: func(ctx context.Context, id uuid.UUID, guestName string, guests, dayCount int) (service.CreateResult, error) {
					return service.CreateResult{Outcome: tt.outcome}, nil
				},
			}

			rec := doRequest(newTestRouter(svc), http.MethodPost, "/api/parks/"+uuid.NewString()+"/bookings",
				`{"guestName":"Ada","guests":1,"dayCount":1}`)
			require.Equal(t, tt.wantStatus, rec.Code)

			var resp dto.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}
}

func TestBookingController_CreateBooking_ValidationErrors(t *testing.T) {
	svc := &mockBookingService{}
	router := newTestRouter(svc)
	path := "/api/parks/" + uuid.NewString() + "/bookings"

	tests := []struct {
		name       string
		body       string
		wantFields []string
	}{
		{name: "multi day", body: `{"guestName":"","guests":0,"dayCount":-1}`, wantFields: []string{"guestName", "guests", "dayCount"}},
		{name: "single day", body: `{"date":"07/04/2031","guestCategory":"senior"}`, wantFields: []string{"date", "guestCategory"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(router, http.MethodPost, path, tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp validationErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			fields := make([]string, 0, len(resp.Details))
			for _, d := range resp.Details {
				fields = append(fields, d.Field)
			}
			assert.ElementsMatch(t, tt.wantFields, fields)
		})
	}
}

func TestBookingController_GetBooking(t *testing.T) {
	booking := newTestBooking(t, uuid.New())
	svc := &mockBookingService{
		GetBookingFunc: func(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
			if id == booking.ID {
				return booking, nil
			}
			return nil, nil
		},
	}
	router := newTestRouter(svc)

	rec := doRequest(router, http.MethodGet, "/api/bookings/"+booking.ID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(router, http.MethodGet, "/api/bookings/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(router, http.MethodGet, "/api/bookings/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookingController_ListParkBookings(t *testing.T) {
	parkID := uuid.New()
	svc := &mockBookingService{
		ListBookingsByParkFunc: func(ctx context.Context, id uuid.UUID) ([]*domain.Booking, error) {
			return []*domain.Booking{newTestBooking(t, id), newTestBooking(t, id)}, nil
		},
	}

	rec := doRequest(newTestRouter(svc), http.MethodGet, "/api/parks/"+parkID.String()+"/bookings", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []dto.BookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 2)
	assert.Equal(t, parkID, resp[0].ParkID)
}

func TestBookingController_CancelAndDelete(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		suffix     string
		ok         bool
		wantStatus int
	}{
		{name: "cancel active", method: http.MethodPost, suffix: "/cancel", ok: true, wantStatus: http.StatusNoContent},
		{name: "cancel missing", method: http.MethodPost, suffix: "/cancel", ok: false, wantStatus: http.StatusNotFound},
		{name: "delete existing", method: http.MethodDelete, ok: true, wantStatus: http.StatusNoContent},
		{name: "delete missing", method: http.MethodDelete, ok: false, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockBookingService{
				CancelBookingFunc: func(ctx context.Context, id uuid.UUID) (bool, error) {
					return tt.ok, nil
				},
				RemoveBookingFunc: func(ctx context.Context, id uuid.UUID) (bool, error) {
					return tt.ok, nil
				},
			}

			rec := doRequest(newTestRouter(svc), tt.method, "/api/bookings/"+uuid.NewString()+tt.suffix, "")
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
