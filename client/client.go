// Package client is a typed HTTP client for the back-office API, used by
// front-end services. It mirrors the API surface one-to-one and never
// reinterprets responses beyond decoding them.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/abcretail/backoffice/internal/customers"
	"github.com/abcretail/backoffice/internal/orders"
	"github.com/abcretail/backoffice/internal/products"
	"github.com/abcretail/backoffice/internal/validation"
)

// Centralized API routes
const (
	customersRoute = "/customers"
	productsRoute  = "/products"
	ordersRoute    = "/orders"
	uploadsRoute   = "/uploads/proof-of-payment"
)

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: %s (status %d)", e.Message, e.Status)
}

// Attachment is a file part for multipart requests.
type Attachment struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// Client talks to one API base URL.
type Client struct {
	base string
	http *http.Client
}

// New returns a Client for baseURL (no trailing slash required).
func New(baseURL string) *Client {
	return &Client{
		base: baseURL,
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

// ---------- Customers ----------

func (c *Client) ListCustomers(ctx context.Context) ([]customers.DTO, error) {
	var out []customers.DTO
	return out, c.doJSON(ctx, http.MethodGet, customersRoute, nil, &out)
}

// GetCustomer returns (nil, nil) when the customer does not exist.
func (c *Client) GetCustomer(ctx context.Context, id string) (*customers.DTO, error) {
	var out customers.DTO
	if err := c.doJSON(ctx, http.MethodGet, customersRoute+"/"+id, nil, &out); err != nil {
		return nil, ignoreNotFound(err)
	}
	return &out, nil
}

func (c *Client) CreateCustomer(ctx context.Context, req validation.CreateCustomerRequest) (*customers.DTO, error) {
	var out customers.DTO
	if err := c.doJSON(ctx, http.MethodPost, customersRoute, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCustomer(ctx context.Context, id string, req validation.UpdateCustomerRequest) (*customers.DTO, error) {
	var out customers.DTO
	if err := c.doJSON(ctx, http.MethodPut, customersRoute+"/"+id, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCustomer(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, customersRoute+"/"+id, nil, nil)
}

// ---------- Products ----------

func (c *Client) ListProducts(ctx context.Context) ([]products.DTO, error) {
	var out []products.DTO
	return out, c.doJSON(ctx, http.MethodGet, productsRoute, nil, &out)
}

// GetProduct returns (nil, nil) when the product does not exist.
func (c *Client) GetProduct(ctx context.Context, id string) (*products.DTO, error) {
	var out products.DTO
	if err := c.doJSON(ctx, http.MethodGet, productsRoute+"/"+id, nil, &out); err != nil {
		return nil, ignoreNotFound(err)
	}
	return &out, nil
}

func (c *Client) CreateProduct(ctx context.Context, form validation.ProductForm, image *Attachment) (*products.DTO, error) {
	var out products.DTO
	if err := c.doProductForm(ctx, http.MethodPost, productsRoute, form, image, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, form validation.ProductForm, image *Attachment) (*products.DTO, error) {
	var out products.DTO
	if err := c.doProductForm(ctx, http.MethodPut, productsRoute+"/"+id, form, image, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, productsRoute+"/"+id, nil, nil)
}

// ---------- Orders ----------

func (c *Client) ListOrders(ctx context.Context) ([]orders.DTO, error) {
	var out []orders.DTO
	return out, c.doJSON(ctx, http.MethodGet, ordersRoute, nil, &out)
}

// GetOrder returns (nil, nil) when the order does not exist.
func (c *Client) GetOrder(ctx context.Context, id string) (*orders.DTO, error) {
	var out orders.DTO
	if err := c.doJSON(ctx, http.MethodGet, ordersRoute+"/"+id, nil, &out); err != nil {
		return nil, ignoreNotFound(err)
	}
	return &out, nil
}

func (c *Client) CreateOrder(ctx context.Context, customerID, productID string, quantity int) (*orders.DTO, error) {
	req := validation.CreateOrderRequest{
		CustomerID: customerID,
		ProductID:  productID,
		Quantity:   quantity,
	}
	var out orders.DTO
	if err := c.doJSON(ctx, http.MethodPost, ordersRoute, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id, status string) (*orders.DTO, error) {
	req := validation.UpdateOrderStatusRequest{Status: status}
	var out orders.DTO
	if err := c.doJSON(ctx, http.MethodPatch, ordersRoute+"/"+id+"/status", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteOrder(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, ordersRoute+"/"+id, nil, nil)
}

// ---------- Uploads ----------

// UploadProofOfPayment streams a proof-of-payment file and returns the stored
// file name. orderID and customerName are optional form fields.
func (c *Client) UploadProofOfPayment(ctx context.Context, file Attachment, orderID, customerName string) (string, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	part, err := form.CreateFormFile("proofOfPayment", file.Name)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file.Body); err != nil {
		return "", err
	}
	if orderID != "" {
		_ = form.WriteField("orderId", orderID)
	}
	if customerName != "" {
		_ = form.WriteField("customerName", customerName)
	}
	if err := form.Close(); err != nil {
		return "", err
	}

	var out struct {
		FileName string `json:"fileName"`
	}
	if err := c.doMultipart(ctx, http.MethodPost, uploadsRoute, &buf, form.FormDataContentType(), &out); err != nil {
		return "", err
	}
	return out.FileName, nil
}

// ---------- plumbing ----------

func (c *Client) doProductForm(ctx context.Context, method, path string, form validation.ProductForm, image *Attachment, out interface{}) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	_ = mw.WriteField("productName", form.ProductName)
	_ = mw.WriteField("description", form.Description)
	_ = mw.WriteField("price", strconv.FormatFloat(form.Price, 'f', -1, 64))
	_ = mw.WriteField("stockAvailable", strconv.Itoa(form.StockAvailable))
	_ = mw.WriteField("lowStockThreshold", strconv.Itoa(form.LowStockThreshold))
	if form.ImageURL != "" {
		_ = mw.WriteField("imageUrl", form.ImageURL)
	}
	if form.ETag != "" {
		_ = mw.WriteField("etag", form.ETag)
	}

	if image != nil {
		part, err := mw.CreateFormFile("imageFile", image.Name)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, image.Body); err != nil {
			return err
		}
	}
	if err := mw.Close(); err != nil {
		return err
	}

	return c.doMultipart(ctx, method, path, &buf, mw.FormDataContentType(), out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) doMultipart(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// apiError extracts the error message from a failed response body.
func apiError(resp *http.Response) error {
	msg := fmt.Sprintf("request failed with status %d", resp.StatusCode)
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil && len(raw) > 0 {
		var body struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if jerr := json.Unmarshal(raw, &body); jerr == nil {
			if body.Error != "" {
				msg = body.Error
			} else if body.Message != "" {
				msg = body.Message
			}
		}
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}

func ignoreNotFound(err error) error {
	if ae, ok := err.(*APIError); ok && ae.Status == http.StatusNotFound {
		return nil
	}
	return err
}
