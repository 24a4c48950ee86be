package inventory

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-faster/errors"

	"github.com/smartinventory/inventory-tracker/app/api"
	"github.com/smartinventory/inventory-tracker/app/fakestore"
	"github.com/smartinventory/inventory-tracker/models"
)

type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Quantity    *int    `json:"quantity,omitempty"`
	Price       float64 `json:"price"`
	Category    string  `json:"category,omitempty"`
	Description string  `json:"description,omitempty"`
	Image       string  `json:"image,omitempty"`
}

type CatalogItem struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	Price       float64           `json:"price"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Image       string            `json:"image"`
	Rating      *fakestore.Rating `json:"rating,omitempty"`
}

type UpdateResponse struct {
	Message string  `json:"message"`
	Product Product `json:"product"`
}

type SnapshotResponse struct {
	Products  []Product     `json:"products"`
	FakeStore []CatalogItem `json:"fakeStore"`
}

type ProductService interface {
	Create(ctx context.Context, in CreateInput) error
	ListAll(ctx context.Context) ([]models.Product, error)
	Update(ctx context.Context, id string, in UpdateInput) (*models.Product, error)
	Delete(ctx context.Context, id string) error
	Catalog(ctx context.Context) ([]fakestore.Item, error)
	ImportCatalog(ctx context.Context) (int, error)
	Snapshot(ctx context.Context) (*Snapshot, error)
}

type ProductHandler struct {
	svc ProductService
	log *slog.Logger
}

func NewProductHandler(svc ProductService, log *slog.Logger) *ProductHandler {
	return &ProductHandler{
		svc: svc,
		log: log,
	}
}

func (h *ProductHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid JSON body", err)
		return
	}

	if err := h.svc.Create(r.Context(), input); err != nil {
		if errors.Is(err, ErrValidation) {
			api.WriteError(w, http.StatusBadRequest, "All fields (id, name, quantity, price) are required", err)
			return
		}
		h.log.Error("product_create_failed", "id", input.ID, "error", err)
		api.WriteError(w, http.StatusInternalServerError, "Could not add product", err)
		return
	}

	api.WriteMessage(w, http.StatusCreated, "Product added successfully")
}

func (h *ProductHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ListAll(r.Context())
	if err != nil {
		h.log.Error("product_list_failed", "error", err)
		api.WriteError(w, http.StatusInternalServerError, "Could not fetch products", err)
		return
	}

	api.WriteJSON(w, http.StatusOK, toProducts(res))
}

func (h *ProductHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var input UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid JSON body", err)
		return
	}

	product, err := h.svc.Update(r.Context(), id, input)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			api.WriteError(w, http.StatusBadRequest, "Quantity must not be negative", err)
			return
		}
		h.log.Error("product_update_failed", "id", id, "error", err)
		api.WriteError(w, http.StatusInternalServerError, "Could not update product", err)
		return
	}

	api.WriteJSON(w, http.StatusOK, UpdateResponse{
		Message: "Product updated",
		Product: toProduct(*product),
	})
}

func (h *ProductHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.log.Error("product_delete_failed", "id", id, "error", err)
		api.WriteError(w, http.StatusInternalServerError, "Could not delete product", err)
		return
	}

	api.WriteMessage(w, http.StatusOK, "Product deleted")
}

func (h *ProductHandler) HandleGetCatalog(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Catalog(r.Context())
	if err != nil {
		h.log.Error("catalog_fetch_failed", "error", err)
		api.WriteError(w, http.StatusInternalServerError, "Failed to fetch products from catalog", err)
		return
	}

	api.WriteJSON(w, http.StatusOK, toCatalogItems(items))
}

func (h *ProductHandler) HandleImportCatalog(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.ImportCatalog(r.Context()); err != nil {
		h.log.Error("catalog_import_failed", "error", err)
		api.WriteError(w, http.StatusInternalServerError, "Failed to save products", err)
		return
	}

	api.WriteMessage(w, http.StatusCreated, "Catalog products saved")
}

func (h *ProductHandler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Snapshot(r.Context())
	if err != nil {
		h.log.Error("snapshot_failed", "error", err)
		api.WriteError(w, http.StatusInternalServerError, "Internal Server Error", err)
		return
	}

	api.WriteJSON(w, http.StatusOK, SnapshotResponse{
		Products:  toProducts(snap.Products),
		FakeStore: toCatalogItems(snap.Catalog),
	})
}

func toProduct(p models.Product) Product {
	return Product{
		ID:          p.ID,
		Name:        p.Name,
		Quantity:    p.Quantity,
		Price:       p.Price.InexactFloat64(),
		Category:    p.Category,
		Description: p.Description,
		Image:       p.Image,
	}
}

func toProducts(res []models.Product) []Product {
	products := make([]Product, len(res))
	for i, p := range res {
		products[i] = toProduct(p)
	}
	return products
}

func toCatalogItems(items []fakestore.Item) []CatalogItem {
	out := make([]CatalogItem, len(items))
	for i, item := range items {
		out[i] = CatalogItem{
			ID:          item.ID,
			Title:       item.Title,
			Price:       item.Price.InexactFloat64(),
			Description: item.Description,
			Category:    item.Category,
			Image:       item.Image,
			Rating:      item.Rating,
		}
	}
	return out
}
