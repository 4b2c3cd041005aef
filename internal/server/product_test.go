package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	productdomain "github.com/smallbiznis/kantin/internal/product/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProductService struct {
	products map[string]productdomain.Product

	addErr     error
	addCalls   int
	lastAddReq productdomain.AddRequest
}

func newFakeProductService(products ...productdomain.Product) *fakeProductService {
	f := &fakeProductService{products: make(map[string]productdomain.Product)}
	for _, p := range products {
		f.products[p.BarcodeID] = p
	}
	return f
}

func (f *fakeProductService) Add(ctx context.Context, req productdomain.AddRequest) (productdomain.Product, error) {
	f.addCalls++
	f.lastAddReq = req
	if f.addErr != nil {
		return productdomain.Product{}, f.addErr
	}
	p := productdomain.Product{
		BarcodeID: req.BarcodeID,
		Name:      req.Name,
		Category:  productdomain.Category(req.Category),
		Stock:     req.Stock,
		CostPrice: req.CostPrice,
		SellPrice: req.SellPrice,
	}
	f.products[p.BarcodeID] = p
	return p, nil
}

func (f *fakeProductService) Update(ctx context.Context, req productdomain.UpdateRequest) (productdomain.Product, error) {
	p, ok := f.products[req.BarcodeID]
	if !ok {
		return productdomain.Product{}, productdomain.ErrNotFound
	}
	p.Name = req.Name
	p.Stock = req.Stock
	f.products[req.BarcodeID] = p
	return p, nil
}

func (f *fakeProductService) Delete(ctx context.Context, barcodeID string) error {
	if _, ok := f.products[barcodeID]; !ok {
		return productdomain.ErrNotFound
	}
	delete(f.products, barcodeID)
	return nil
}

func (f *fakeProductService) Get(ctx context.Context, barcodeID string) (productdomain.Product, bool, error) {
	p, ok := f.products[barcodeID]
	return p, ok, nil
}

func (f *fakeProductService) Search(ctx context.Context, req productdomain.SearchRequest) ([]productdomain.Product, error) {
	var out []productdomain.Product
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProductService) List(ctx context.Context) ([]productdomain.Product, error) {
	var out []productdomain.Product
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProductService) Restock(ctx context.Context, req productdomain.RestockRequest) (productdomain.Product, error) {
	p, ok := f.products[req.BarcodeID]
	if !ok {
		return productdomain.Product{}, productdomain.ErrNotFound
	}
	if req.Amount <= 0 {
		return productdomain.Product{}, productdomain.ErrInvalidAmount
	}
	p.Stock += req.Amount
	f.products[req.BarcodeID] = p
	return p, nil
}

func newProductTestRouter(svc productdomain.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)

	srv := &Server{products: svc}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.GET("/api/products", srv.ListProducts)
	router.POST("/api/products", srv.CreateProduct)
	router.GET("/api/products/:barcode", srv.GetProduct)
	router.PUT("/api/products/:barcode", srv.UpdateProduct)
	router.DELETE("/api/products/:barcode", srv.DeleteProduct)
	router.POST("/api/products/:barcode/restock", srv.RestockProduct)
	return router
}

func TestCreateProductHandler(t *testing.T) {
	svc := newFakeProductService()
	router := newProductTestRouter(svc)

	body := `{"barcode_id":"BRK001","name":"Aqua 600ml","category":"beverage","stock":50,"cost_price":2000,"sell_price":3000}`
	req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, 1, svc.addCalls)
	assert.Equal(t, "BRK001", svc.lastAddReq.BarcodeID)
	assert.Equal(t, int64(3000), svc.lastAddReq.SellPrice)
}

func TestCreateProductHandlerRejectsMalformedBody(t *testing.T) {
	svc := newFakeProductService()
	router := newProductTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewBufferString(`{"stock":"many"`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, 0, svc.addCalls)
}

func TestCreateProductHandlerDuplicate(t *testing.T) {
	svc := newFakeProductService()
	svc.addErr = productdomain.ErrDuplicateBarcode
	router := newProductTestRouter(svc)

	body := `{"barcode_id":"BRK001","name":"Aqua 600ml","category":"beverage","stock":50,"cost_price":2000,"sell_price":3000}`
	req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusConflict, resp.Code)

	var payload errorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
	assert.Equal(t, "conflict", payload.Error.Type)
}

func TestCreateProductHandlerValidation(t *testing.T) {
	svc := newFakeProductService()
	svc.addErr = productdomain.ErrInvalidPrice
	router := newProductTestRouter(svc)

	body := `{"barcode_id":"BRK001","name":"Aqua 600ml","category":"beverage","stock":50,"cost_price":3000,"sell_price":2000}`
	req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var payload errorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
	assert.Equal(t, "validation_error", payload.Error.Type)
	require.Len(t, payload.Error.Errors, 1)
	assert.Equal(t, "invalid_price", payload.Error.Errors[0].Code)
	assert.Equal(t, "price", payload.Error.Errors[0].Field)
}

func TestGetProductHandlerNotFound(t *testing.T) {
	router := newProductTestRouter(newFakeProductService())

	req := httptest.NewRequest(http.MethodGet, "/api/products/NOPE", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestGetProductHandler(t *testing.T) {
	router := newProductTestRouter(newFakeProductService(productdomain.Product{
		BarcodeID: "BRK001",
		Name:      "Aqua 600ml",
		Category:  productdomain.CategoryBeverage,
		Stock:     50,
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/products/BRK001", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)

	var payload struct {
		Data productdomain.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
	assert.Equal(t, "Aqua 600ml", payload.Data.Name)
	assert.Equal(t, 50, payload.Data.Stock)
}

func TestRestockProductHandler(t *testing.T) {
	svc := newFakeProductService(productdomain.Product{BarcodeID: "BRK001", Stock: 10})
	router := newProductTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/products/BRK001/restock", bytes.NewBufferString(`{"amount":15}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 25, svc.products["BRK001"].Stock)
}

func TestDeleteProductHandler(t *testing.T) {
	svc := newFakeProductService(productdomain.Product{BarcodeID: "BRK001"})
	router := newProductTestRouter(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/products/BRK001", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/products/BRK001", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)
}
