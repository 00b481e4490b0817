package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dropx-tech/marketplace-backend/internal/usecase"
	"github.com/dropx-tech/marketplace-backend/pkg/e"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debugf(format string, args ...any)            {}
func (nopLogger) Infof(format string, args ...any)             {}
func (nopLogger) Warnf(format string, args ...any)             {}
func (nopLogger) Errorf(err error, format string, args ...any) {}

type fakeListingUC struct {
	products  *usecase.ProductListRes
	merchants *usecase.MerchantListRes
	gotRaw    usecase.RawListingParams
}

func (f *fakeListingUC) ListProducts(_ context.Context, filter *usecase.ListingFilter) (*usecase.ProductListRes, error) {
	f.gotRaw.Category = filter.Category
	f.gotRaw.Search = filter.Search
	if f.products == nil {
		return &usecase.ProductListRes{Products: []usecase.ProductDTO{}}, nil
	}
	return f.products, nil
}

func (f *fakeListingUC) ListMerchants(_ context.Context, filter *usecase.ListingFilter) (*usecase.MerchantListRes, error) {
	if f.merchants == nil {
		return &usecase.MerchantListRes{Merchants: []usecase.MerchantDTO{}}, nil
	}
	return f.merchants, nil
}

func (f *fakeListingUC) ListCategories(_ context.Context) ([]usecase.CategoryCount, error) {
	return []usecase.CategoryCount{{Category: "пицца", ProductCount: 3}}, nil
}

type fakeProfileUC struct {
	profile *usecase.ProfileDTO
	pwErr   error
}

func (f *fakeProfileUC) GetProfile(_ context.Context, userID int64) (*usecase.ProfileDTO, error) {
	if f.profile == nil {
		return nil, e.ErrUserNotFound
	}
	return f.profile, nil
}

func (f *fakeProfileUC) UpdateProfile(_ context.Context, userID int64, req *usecase.UpdateProfileReq) (*usecase.ProfileDTO, error) {
	if req.Name == nil && req.Email == nil && req.Phone == nil {
		return nil, e.ErrInvalidProfileFields
	}
	return f.profile, nil
}

func (f *fakeProfileUC) ChangePassword(_ context.Context, userID int64, current, next string) error {
	return f.pwErr
}

func (f *fakeProfileUC) ListOrders(_ context.Context, userID int64) ([]usecase.OrderDTO, error) {
	return []usecase.OrderDTO{}, nil
}

type fakeAddressUC struct {
	addErr    error
	setErr    error
	deleteErr error
	gotUserID int64
	gotAddrID int64
}

func (f *fakeAddressUC) List(_ context.Context, userID int64) ([]usecase.AddressDTO, error) {
	f.gotUserID = userID
	return []usecase.AddressDTO{}, nil
}

func (f *fakeAddressUC) Add(_ context.Context, userID int64, req *usecase.AddAddressReq) (*usecase.AddressDTO, error) {
	f.gotUserID = userID
	if f.addErr != nil {
		return nil, f.addErr
	}
	return &usecase.AddressDTO{ID: 1, Line1: req.Line1, City: req.City, IsDefault: true}, nil
}

func (f *fakeAddressUC) SetDefault(_ context.Context, userID, addressID int64) error {
	f.gotUserID, f.gotAddrID = userID, addressID
	return f.setErr
}

func (f *fakeAddressUC) Delete(_ context.Context, userID, addressID int64) error {
	f.gotUserID, f.gotAddrID = userID, addressID
	return f.deleteErr
}

type fakeSessions struct {
	tokens map[string]int64
}

func (f *fakeSessions) ResolveUserID(_ context.Context, token string) (int64, error) {
	id, ok := f.tokens[token]
	if !ok {
		return 0, e.ErrUnauthorized
	}
	return id, nil
}

func newTestRouter(listing *fakeListingUC, profile *fakeProfileUC, address *fakeAddressUC) *chi.Mux {
	if listing == nil {
		listing = &fakeListingUC{}
	}
	if profile == nil {
		profile = &fakeProfileUC{profile: &usecase.ProfileDTO{ID: 7, Name: "Айрат"}}
	}
	if address == nil {
		address = &fakeAddressUC{}
	}
	sessions := &fakeSessions{tokens: map[string]int64{"valid-token": 7}}

	r := chi.NewRouter()
	NewRouter(r, nopLogger{}).Init(listing, profile, address, sessions)
	return r
}

func doRequest(t *testing.T, r http.Handler, method, target, token string, body any) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestCatalog_ListProducts(t *testing.T) {
	listing := &fakeListingUC{products: &usecase.ProductListRes{
		Products: []usecase.ProductDTO{{ID: 1, Name: "Пепперони"}},
		Count:    1,
		Total:    57,
	}}
	r := newTestRouter(listing, nil, nil)

	rec, env := doRequest(t, r, http.MethodGet, "/api/v1/products?category=пицца&limit=1", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	data := env.Data.(map[string]any)
	assert.EqualValues(t, 1, data["count"])
	assert.EqualValues(t, 57, data["total"])
	assert.Equal(t, "пицца", listing.gotRaw.Category)
}

func TestCatalog_ActionDispatch(t *testing.T) {
	r := newTestRouter(nil, nil, nil)

	tests := []struct {
		name     string
		target   string
		wantCode int
	}{
		{name: "default is products", target: "/api/v1/products", wantCode: http.StatusOK},
		{name: "merchants", target: "/api/v1/products?action=merchants", wantCode: http.StatusOK},
		{name: "categories", target: "/api/v1/products?action=categories", wantCode: http.StatusOK},
		{name: "unknown action", target: "/api/v1/products?action=baskets", wantCode: http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, env := doRequest(t, r, http.MethodGet, tc.target, "", nil)
			assert.Equal(t, tc.wantCode, rec.Code)
			assert.Equal(t, tc.wantCode == http.StatusOK, env.Success)
		})
	}
}

func TestProfile_RequiresAuth(t *testing.T) {
	r := newTestRouter(nil, nil, nil)

	tests := []struct {
		name  string
		token string
	}{
		{name: "no token", token: ""},
		{name: "unknown token", token: "garbage"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, env := doRequest(t, r, http.MethodGet, "/api/v1/profile", tc.token, nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, env.Success)
		})
	}
}

func TestProfile_Get(t *testing.T) {
	r := newTestRouter(nil, nil, nil)

	rec, env := doRequest(t, r, http.MethodGet, "/api/v1/profile", "valid-token", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)
	data := env.Data.(map[string]any)
	assert.Equal(t, "Айрат", data["name"])
}

func TestProfile_GetActions(t *testing.T) {
	address := &fakeAddressUC{}
	r := newTestRouter(nil, nil, address)

	rec, env := doRequest(t, r, http.MethodGet, "/api/v1/profile?action=addresses", "valid-token", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, int64(7), address.gotUserID)

	rec, env = doRequest(t, r, http.MethodGet, "/api/v1/profile?action=orders", "valid-token", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
}

func TestProfile_AddAddress(t *testing.T) {
	address := &fakeAddressUC{}
	r := newTestRouter(nil, nil, address)

	rec, env := doRequest(t, r, http.MethodPost, "/api/v1/profile", "valid-token", map[string]any{
		"action": "add_address",
		"line1":  "ул. Ленина, 1",
		"city":   "Казань",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.True(t, env.Success)
	assert.Equal(t, int64(7), address.gotUserID)
}

func TestProfile_AddAddress_ValidationError(t *testing.T) {
	address := &fakeAddressUC{addErr: e.ErrInvalidAddressFields}
	r := newTestRouter(nil, nil, address)

	rec, env := doRequest(t, r, http.MethodPost, "/api/v1/profile", "valid-token", map[string]any{
		"action": "add_address",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
}

func TestProfile_SetDefaultAddress(t *testing.T) {
	address := &fakeAddressUC{}
	r := newTestRouter(nil, nil, address)

	rec, env := doRequest(t, r, http.MethodPut, "/api/v1/profile", "valid-token", map[string]any{
		"action":     "set_default_address",
		"address_id": 42,
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, int64(42), address.gotAddrID)
}

func TestProfile_DeleteForeignAddressIsNotFound(t *testing.T) {
	address := &fakeAddressUC{deleteErr: e.ErrAddressNotFound}
	r := newTestRouter(nil, nil, address)

	rec, env := doRequest(t, r, http.MethodDelete, "/api/v1/profile", "valid-token", map[string]any{
		"action":     "delete_address",
		"address_id": 9999,
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
}

func TestProfile_DefaultConflictIs409(t *testing.T) {
	address := &fakeAddressUC{setErr: e.ErrDefaultConflict}
	r := newTestRouter(nil, nil, address)

	rec, _ := doRequest(t, r, http.MethodPut, "/api/v1/profile", "valid-token", map[string]any{
		"action":     "set_default_address",
		"address_id": 1,
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestProfile_WrongVerbForKnownActionIs405(t *testing.T) {
	r := newTestRouter(nil, nil, nil)

	tests := []struct {
		name   string
		method string
		action string
	}{
		{name: "add_address via PUT", method: http.MethodPut, action: "add_address"},
		{name: "set_default via POST", method: http.MethodPost, action: "set_default_address"},
		{name: "delete via POST", method: http.MethodPost, action: "delete_address"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, env := doRequest(t, r, tc.method, "/api/v1/profile", "valid-token", map[string]any{
				"action": tc.action,
			})
			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
			assert.False(t, env.Success)
		})
	}
}

func TestProfile_UnknownActionIs400(t *testing.T) {
	r := newTestRouter(nil, nil, nil)

	rec, env := doRequest(t, r, http.MethodPost, "/api/v1/profile", "valid-token", map[string]any{
		"action": "make_coffee",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)

	rec, env = doRequest(t, r, http.MethodGet, "/api/v1/profile?action=make_coffee", "valid-token", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
}

func TestProfile_ChangePassword_WrongCurrent(t *testing.T) {
	profile := &fakeProfileUC{profile: &usecase.ProfileDTO{ID: 7}, pwErr: e.ErrWrongPassword}
	r := newTestRouter(nil, profile, nil)

	rec, env := doRequest(t, r, http.MethodPost, "/api/v1/profile", "valid-token", map[string]any{
		"action":           "change_password",
		"current_password": "nope",
		"new_password":     "battery-staple",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
}

func TestProfile_MalformedBodyIs400(t *testing.T) {
	r := newTestRouter(nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/profile", bytes.NewReader([]byte("{broken")))
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Equal(t, e.ErrMalformedBody.Error(), env.Message)
}

func TestStorageErrorsAreRedacted(t *testing.T) {
	address := &fakeAddressUC{setErr: e.Wrap("pq: connection refused on host db-1", e.ErrInternalServerError)}
	r := newTestRouter(nil, nil, address)

	rec, env := doRequest(t, r, http.MethodPut, "/api/v1/profile", "valid-token", map[string]any{
		"action":     "set_default_address",
		"address_id": 1,
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, env.Success)
	assert.NotContains(t, env.Message, "db-1")
}
