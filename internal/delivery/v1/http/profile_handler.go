package http

import (
	"net/http"

	"github.com/dropx-tech/marketplace-backend/internal/usecase"
	"github.com/dropx-tech/marketplace-backend/pkg/e"
	"github.com/dropx-tech/marketplace-backend/pkg/logger"
)

// Контракт /api/v1/profile: действие задаётся параметром action
// (query для GET, поле тела для остальных методов). Известное действие
// с чужим методом — 405, неизвестное — 400.
var profileActions = map[string]string{
	"get_profile":         http.MethodGet,
	"addresses":           http.MethodGet,
	"orders":              http.MethodGet,
	"add_address":         http.MethodPost,
	"update_profile":      http.MethodPost,
	"change_password":     http.MethodPost,
	"set_default_address": http.MethodPut,
	"delete_address":      http.MethodDelete,
}

type ProfileHandler struct {
	profileUsecase usecase.ProfileUC
	addressUsecase usecase.AddressUC
	logger         logger.Logger
}

func NewProfileHandler(profileUsecase usecase.ProfileUC, addressUsecase usecase.AddressUC, logger logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileUsecase: profileUsecase,
		addressUsecase: addressUsecase,
		logger:         logger,
	}
}

// profileActionReq — тело мутирующих запросов профиля. Поля заполняются
// в зависимости от action.
type profileActionReq struct {
	Action string `json:"action"`

	AddressID int64  `json:"address_id"`
	Label     string `json:"label"`
	Line1     string `json:"line1"`
	Line2     string `json:"line2"`
	City      string `json:"city"`
	District  string `json:"district"`
	Notes     string `json:"notes"`
	IsDefault bool   `json:"is_default"`

	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`

	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (p *ProfileHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	userID, err := UserIDFromCtx(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	action := r.URL.Query().Get("action")
	if action == "" {
		action = "get_profile"
	}
	if err := checkAction(action, http.MethodGet); err != nil {
		WriteError(w, err)
		return
	}

	switch action {
	case "get_profile":
		p.getProfile(w, r, userID)
	case "addresses":
		p.listAddresses(w, r, userID)
	case "orders":
		p.listOrders(w, r, userID)
	}
}

func (p *ProfileHandler) handleMutation(w http.ResponseWriter, r *http.Request) {
	userID, err := UserIDFromCtx(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	var req profileActionReq
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	if err := checkAction(req.Action, r.Method); err != nil {
		WriteError(w, err)
		return
	}

	switch req.Action {
	case "add_address":
		p.addAddress(w, r, userID, &req)
	case "update_profile":
		p.updateProfile(w, r, userID, &req)
	case "change_password":
		p.changePassword(w, r, userID, &req)
	case "set_default_address":
		p.setDefaultAddress(w, r, userID, &req)
	case "delete_address":
		p.deleteAddress(w, r, userID, &req)
	}
}

func checkAction(action, method string) error {
	want, known := profileActions[action]
	if !known {
		return e.Wrap(action, e.ErrUnknownAction)
	}
	if want != method {
		return e.Wrap(action, e.ErrMethodNotAllowed)
	}
	return nil
}

func (p *ProfileHandler) getProfile(w http.ResponseWriter, r *http.Request, userID int64) {
	profile, err := p.profileUsecase.GetProfile(r.Context(), userID)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, "profile retrieved", profile)
}

func (p *ProfileHandler) listAddresses(w http.ResponseWriter, r *http.Request, userID int64) {
	addresses, err := p.addressUsecase.List(r.Context(), userID)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, "addresses retrieved", map[string]interface{}{
		"addresses": addresses,
	})
}

func (p *ProfileHandler) listOrders(w http.ResponseWriter, r *http.Request, userID int64) {
	orders, err := p.profileUsecase.ListOrders(r.Context(), userID)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, "orders retrieved", map[string]interface{}{
		"orders": orders,
	})
}

func (p *ProfileHandler) addAddress(w http.ResponseWriter, r *http.Request, userID int64, req *profileActionReq) {
	address, err := p.addressUsecase.Add(r.Context(), userID, &usecase.AddAddressReq{
		Label:     req.Label,
		Line1:     req.Line1,
		Line2:     req.Line2,
		City:      req.City,
		District:  req.District,
		Notes:     req.Notes,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, "address added", address)
}

func (p *ProfileHandler) updateProfile(w http.ResponseWriter, r *http.Request, userID int64, req *profileActionReq) {
	profile, err := p.profileUsecase.UpdateProfile(r.Context(), userID, &usecase.UpdateProfileReq{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, "profile updated", profile)
}

func (p *ProfileHandler) changePassword(w http.ResponseWriter, r *http.Request, userID int64, req *profileActionReq) {
	if err := p.profileUsecase.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, "password changed", nil)
}

func (p *ProfileHandler) setDefaultAddress(w http.ResponseWriter, r *http.Request, userID int64, req *profileActionReq) {
	if err := p.addressUsecase.SetDefault(r.Context(), userID, req.AddressID); err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, "default address updated", nil)
}

func (p *ProfileHandler) deleteAddress(w http.ResponseWriter, r *http.Request, userID int64, req *profileActionReq) {
	if err := p.addressUsecase.Delete(r.Context(), userID, req.AddressID); err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, "address deleted", nil)
}
