package gateway

import (
	"errors"
	"net/http"

	"github.com/alaaMelook/Nature-Hug-sub001/pkg/lifecycle"
	"github.com/alaaMelook/Nature-Hug-sub001/pkg/models"
	"github.com/alaaMelook/Nature-Hug-sub001/pkg/promo"
	"github.com/alaaMelook/Nature-Hug-sub001/pkg/repository"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func (g *Gateway) listProducts(c *gin.Context) {
	var q struct {
		Page     int `form:"page,default=1"`
		PageSize int `form:"page_size,default=20"`
	}
	if err := c.BindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	products, total, err := g.store.ListProducts(c.Request.Context(), q.Page, q.PageSize)
	if err != nil {
		g.logger.Error("Failed to list products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "total": total})
}

func (g *Gateway) getProduct(c *gin.Context) {
	product, err := g.store.GetProductBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		g.logger.Error("Failed to get product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get product"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func sessionID(c *gin.Context) string {
	return c.GetHeader("X-Session-ID")
}

func (g *Gateway) getCart(c *gin.Context) {
	sid := sessionID(c)
	if sid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing session"})
		return
	}
	cart, err := g.cache.GetCart(c.Request.Context(), sid)
	if err != nil {
		g.logger.Error("Failed to get cart", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get cart"})
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (g *Gateway) saveCart(c *gin.Context) {
	sid := sessionID(c)
	if sid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing session"})
		return
	}
	var body struct {
		Items []repository.GuestCartItem `json:"items"`
	}
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cart := &repository.GuestCart{SessionID: sid, Items: body.Items}
	if err := g.cache.SaveCart(c.Request.Context(), cart); err != nil {
		g.logger.Error("Failed to save cart", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save cart"})
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (g *Gateway) clearCart(c *gin.Context) {
	sid := sessionID(c)
	if sid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing session"})
		return
	}
	if err := g.cache.DeleteCart(c.Request.Context(), sid); err != nil {
		g.logger.Error("Failed to clear cart", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type checkoutRequest struct {
	CustomerID    string `json:"customer_id"`
	GovernorateID uint   `json:"governorate_id"`
	PromoCode     string `json:"promo_code"`
	Items         []struct {
		ProductID uint  `json:"product_id"`
		VariantID *uint `json:"variant_id"`
		Quantity  int   `json:"quantity"`
	} `json:"items"`
}

// checkout places an order for an authenticated customer or a guest
// session. Items come from the body when present, otherwise from the
// redis cart, which is cleared after a successful order.
func (g *Gateway) checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sid := sessionID(c)
	in := lifecycle.PlaceOrderInput{
		CustomerID:    req.CustomerID,
		SessionID:     sid,
		GovernorateID: req.GovernorateID,
		PromoCode:     req.PromoCode,
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, lifecycle.PlaceOrderItem{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
		})
	}

	fromCart := false
	if len(in.Items) == 0 && sid != "" {
		cart, err := g.cache.GetCart(c.Request.Context(), sid)
		if err == nil {
			for _, it := range cart.Items {
				in.Items = append(in.Items, lifecycle.PlaceOrderItem{
					ProductID: it.ProductID,
					VariantID: it.VariantID,
					Quantity:  it.Quantity,
				})
			}
			fromCart = len(in.Items) > 0
		}
	}

	order, err := g.lifecycle.PlaceOrder(c.Request.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, lifecycle.ErrEmptyOrder):
			c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
		case errors.Is(err, lifecycle.ErrPromoNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid promo code"})
		default:
			g.logger.Error("Checkout failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to place order"})
		}
		return
	}

	if fromCart {
		if err := g.cache.DeleteCart(c.Request.Context(), sid); err != nil {
			g.logger.Warn("Failed to clear cart after checkout", zap.Error(err))
		}
	}
	c.JSON(http.StatusCreated, order)
}

type validatePromoRequest struct {
	Code  string `json:"code"`
	Items []struct {
		Slug      string          `json:"slug"`
		Quantity  int             `json:"quantity"`
		UnitPrice decimal.Decimal `json:"unit_price"`
	} `json:"items"`
}

// validatePromo previews the discount a code grants over the current
// cart, without creating anything.
func (g *Gateway) validatePromo(c *gin.Context) {
	var req validatePromoRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing promo code"})
		return
	}

	code, err := g.lookupPromo(c, req.Code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "promo code not found"})
			return
		}
		g.logger.Error("Failed to look up promo code", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to validate promo code"})
		return
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, models.OrderItem{
			Slug:      it.Slug,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	discount := promo.Evaluate(*code, items)
	c.JSON(http.StatusOK, gin.H{
		"code":              code.Code,
		"is_bogo":           code.IsBOGO,
		"discount":          discount.StringFixed(2),
		"eligible_subtotal": promo.EligibleSubtotal(*code, items).StringFixed(2),
	})
}

// lookupPromo tries the redis cache before MySQL and refills it on miss.
func (g *Gateway) lookupPromo(c *gin.Context, code string) (*models.PromoCode, error) {
	if cached, err := g.cache.GetPromoCodeCache(c.Request.Context(), code); err == nil {
		return cached, nil
	}
	promoCode, err := g.store.GetPromoCode(c.Request.Context(), code)
	if err != nil {
		return nil, err
	}
	if err := g.cache.CachePromoCode(c.Request.Context(), promoCode); err != nil {
		g.logger.Warn("Failed to cache promo code", zap.Error(err))
	}
	return promoCode, nil
}

func (g *Gateway) trackOrder(c *gin.Context) {
	view, err := g.lifecycle.Track(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, lifecycle.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		g.logger.Error("Failed to track order", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to track order"})
		return
	}
	c.JSON(http.StatusOK, view)
}

// cancelOrder is the authenticated customer path; cancelGuestOrder the
// guest one. Both report "not cancellable" explicitly instead of the
// historical silent no-op.
func (g *Gateway) cancelOrder(c *gin.Context) {
	customerID := c.GetHeader("X-Customer-ID")
	if customerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing customer identity"})
		return
	}
	g.cancelWith(c, lifecycle.ByCustomer(customerID))
}

func (g *Gateway) cancelGuestOrder(c *gin.Context) {
	sid := sessionID(c)
	if sid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing session"})
		return
	}
	g.cancelWith(c, lifecycle.BySession(sid))
}

func (g *Gateway) cancelWith(c *gin.Context, authz lifecycle.Authorization) {
	err := g.lifecycle.Cancel(c.Request.Context(), c.Param("id"), authz)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true})
	case errors.Is(err, lifecycle.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
	case errors.Is(err, lifecycle.ErrNotCancellable):
		c.JSON(http.StatusConflict, gin.H{"error": "order is not cancellable"})
	default:
		g.logger.Error("Failed to cancel order", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to cancel order"})
	}
}

// createDistributorOrder accepts bulk guest orders from distributors.
func (g *Gateway) createDistributorOrder(c *gin.Context) {
	var req checkoutRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sid := sessionID(c)
	if sid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing session"})
		return
	}

	in := lifecycle.PlaceOrderInput{
		SessionID:     sid,
		GovernorateID: req.GovernorateID,
		PromoCode:     req.PromoCode,
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, lifecycle.PlaceOrderItem{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
		})
	}

	order, err := g.lifecycle.PlaceOrder(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, lifecycle.ErrEmptyOrder) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "order has no items"})
			return
		}
		g.logger.Error("Failed to create distributor order", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create order"})
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (g *Gateway) upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return
	}
	defer file.Close()

	url, err := g.uploader.Upload(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		g.logger.Error("Upload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
