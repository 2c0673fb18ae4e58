package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	cartapp "github.com/dwikikusuma/cart-service/internal/cart/app"
	"github.com/dwikikusuma/cart-service/internal/cart/domain"
	catalogapp "github.com/dwikikusuma/cart-service/internal/catalog/app"
	catalog "github.com/dwikikusuma/cart-service/internal/catalog/domain"
	"github.com/shopspring/decimal"
)

// Server exposes the cart command/query surface to UI collaborators and the
// catalog intake surface to the fetching collaborator.
type Server struct {
	cart    *cartapp.Store
	catalog *catalogapp.Service
	log     *slog.Logger
}

func NewServer(cart *cartapp.Store, catalog *catalogapp.Service, log *slog.Logger) *Server {
	return &Server{
		cart:    cart,
		catalog: catalog,
		log:     log,
	}
}

func (s *Server) RegisterRoutes(router *gin.RouterGroup) {
	cart := router.Group("/cart")
	{
		cart.GET("", s.GetCart)
		cart.DELETE("", s.ClearCart)
		cart.POST("/items", s.AddItem)
		cart.PUT("/items/:productID", s.UpdateQuantity)
		cart.DELETE("/items/:productID", s.RemoveItem)
	}

	router.POST("/catalog/records", s.ImportRecords)
}

type lineView struct {
	Product  catalog.Record `json:"product"`
	Quantity int64          `json:"quantity"`
}

type cartView struct {
	Items      []lineView      `json:"items"`
	TotalItems int64           `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
	IsEmpty    bool            `json:"is_empty"`
}

func (s *Server) view() cartView {
	items := s.cart.Items()

	lines := make([]lineView, 0, len(items))
	for _, it := range items {
		lines = append(lines, lineView{
			Product:  it.Product.Record(),
			Quantity: it.Quantity,
		})
	}

	return cartView{
		Items:      lines,
		TotalItems: domain.TotalItems(items),
		TotalPrice: domain.TotalPrice(items),
		IsEmpty:    domain.TotalItems(items) == 0,
	}
}

func (s *Server) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, s.view())
}

// AddItem takes a raw product record as the request body, parses it, and
// merges it into the cart.
func (s *Server) AddItem(c *gin.Context) {
	var rec catalog.Record
	if err := c.ShouldBindJSON(&rec); err != nil {
		if !errors.Is(err, catalog.ErrMalformedProductData) {
			err = errInvalidBody
		}
		s.fail(c, err)
		return
	}

	p, err := catalog.ParseProduct(rec)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.cart.AddItem(p)
	opsTotal.WithLabelValues("add").Inc()
	c.JSON(http.StatusOK, s.view())
}

type updateQuantityRequest struct {
	Quantity int64 `json:"quantity"`
}

func (s *Server) UpdateQuantity(c *gin.Context) {
	id, err := productIDParam(c)
	if err != nil {
		s.fail(c, err)
		return
	}

	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, errInvalidBody)
		return
	}

	s.cart.UpdateQuantity(id, req.Quantity)
	opsTotal.WithLabelValues("update").Inc()
	c.JSON(http.StatusOK, s.view())
}

func (s *Server) RemoveItem(c *gin.Context) {
	id, err := productIDParam(c)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.cart.RemoveItem(id)
	opsTotal.WithLabelValues("remove").Inc()
	c.JSON(http.StatusOK, s.view())
}

func (s *Server) ClearCart(c *gin.Context) {
	s.cart.ClearCart()
	opsTotal.WithLabelValues("clear").Inc()
	c.JSON(http.StatusOK, s.view())
}

type importResponse struct {
	Products []catalog.Record `json:"products"`
	Skipped  int              `json:"skipped"`
}

// ImportRecords parses a batch of raw catalog records and reports how many
// were skipped as malformed.
func (s *Server) ImportRecords(c *gin.Context) {
	var raw []json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		s.fail(c, errInvalidBody)
		return
	}

	products, skipped := s.catalog.Decode(raw)

	recs := make([]catalog.Record, 0, len(products))
	for _, p := range products {
		recs = append(recs, p.Record())
	}

	c.JSON(http.StatusOK, importResponse{Products: recs, Skipped: skipped})
}

func productIDParam(c *gin.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("productID"), 10, 64)
	if err != nil {
		return 0, errInvalidProductID
	}
	return id, nil
}

func (s *Server) fail(c *gin.Context, err error) {
	status, code, msg := httpStatusFrom(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", slog.String("path", c.FullPath()), slog.Any("err", err))
	}
	c.JSON(status, gin.H{"code": code, "error": msg})
}
