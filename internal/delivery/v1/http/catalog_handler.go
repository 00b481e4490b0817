package http

import (
	"net/http"

	"github.com/dropx-tech/marketplace-backend/internal/usecase"
	"github.com/dropx-tech/marketplace-backend/pkg/e"
	"github.com/dropx-tech/marketplace-backend/pkg/logger"
)

type CatalogHandler struct {
	listingUsecase usecase.ListingUC
	logger         logger.Logger
}

func NewCatalogHandler(listingUsecase usecase.ListingUC, logger logger.Logger) *CatalogHandler {
	return &CatalogHandler{listingUsecase: listingUsecase, logger: logger}
}

// listCatalog обслуживает каталог через параметр action:
// пусто — товары, merchants — магазины, categories — категории.
func (c *CatalogHandler) listCatalog(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("action") {
	case "":
		c.listProducts(w, r)
	case "merchants":
		c.listMerchants(w, r)
	case "categories":
		c.listCategories(w, r)
	default:
		WriteError(w, e.ErrUnknownAction)
	}
}

func (c *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	filter := usecase.NewProductFilter(rawListingParams(r))

	res, err := c.listingUsecase.ListProducts(r.Context(), filter)
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, "products retrieved", map[string]interface{}{
		"products": res.Products,
		"count":    res.Count,
		"total":    res.Total,
	})
}

func (c *CatalogHandler) listMerchants(w http.ResponseWriter, r *http.Request) {
	filter := usecase.NewMerchantFilter(rawListingParams(r))

	res, err := c.listingUsecase.ListMerchants(r.Context(), filter)
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, "merchants retrieved", map[string]interface{}{
		"merchants": res.Merchants,
		"count":     res.Count,
		"total":     res.Total,
	})
}

func (c *CatalogHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.listingUsecase.ListCategories(r.Context())
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, "categories retrieved", map[string]interface{}{
		"categories": categories,
	})
}

func rawListingParams(r *http.Request) usecase.RawListingParams {
	q := r.URL.Query()
	return usecase.RawListingParams{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Limit:    q.Get("limit"),
		Offset:   q.Get("offset"),
	}
}
