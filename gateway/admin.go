package gateway

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/alaaMelook/Nature-Hug-sub001/pkg/analytics"
	"github.com/alaaMelook/Nature-Hug-sub001/pkg/lifecycle"
	"github.com/alaaMelook/Nature-Hug-sub001/pkg/models"
	"github.com/alaaMelook/Nature-Hug-sub001/pkg/shipping"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (g *Gateway) adminListOrders(c *gin.Context) {
	var q struct {
		Status   string `form:"status"`
		Page     int    `form:"page,default=1"`
		PageSize int    `form:"page_size,default=20"`
	}
	if err := c.BindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orders, total, err := g.store.ListOrders(c.Request.Context(), q.Status, q.Page, q.PageSize)
	if err != nil {
		g.logger.Error("Failed to list orders", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "total": total})
}

func (g *Gateway) adminGetOrder(c *gin.Context) {
	order, err := g.store.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, lifecycle.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		g.logger.Error("Failed to get order", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get order"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (g *Gateway) adminOrderHistory(c *gin.Context) {
	entries, err := g.audit.OrderHistory(c.Request.Context(), c.Param("id"), 100)
	if err != nil {
		g.logger.Error("Failed to load order history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load order history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}

func (g *Gateway) adminSetStatus(c *gin.Context) {
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := g.lifecycle.SetStatus(c.Request.Context(), c.Param("id"), body.Status)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true})
	case errors.Is(err, lifecycle.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
	case errors.Is(err, models.ErrUnknownStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		g.logger.Error("Failed to set status", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to set status"})
	}
}

func (g *Gateway) adminCancelOrder(c *gin.Context) {
	g.cancelWith(c, lifecycle.ByAdmin())
}

// packOrders marks a batch as packed. Orders are processed one by one;
// a failure only marks its own entry, earlier successes stand.
func (g *Gateway) packOrders(c *gin.Context) {
	var body struct {
		OrderIDs []string `json:"orderIds" binding:"required,min=1"`
	}
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := g.packer.Pack(c.Request.Context(), body.OrderIDs)
	if err != nil {
		g.logger.Error("Packing batch failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "packing batch failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (g *Gateway) listPromoCodes(c *gin.Context) {
	codes, err := g.store.ListPromoCodes(c.Request.Context())
	if err != nil {
		g.logger.Error("Failed to list promo codes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list promo codes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"promo_codes": codes})
}

func (g *Gateway) createPromoCode(c *gin.Context) {
	var code models.PromoCode
	if err := c.BindJSON(&code); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := g.store.CreatePromoCode(c.Request.Context(), &code); err != nil {
		if models.IsPromoValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		g.logger.Error("Failed to create promo code", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create promo code"})
		return
	}
	c.JSON(http.StatusCreated, code)
}

func (g *Gateway) deletePromoCode(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := g.store.DeletePromoCode(c.Request.Context(), uint(id)); err != nil {
		g.logger.Error("Failed to delete promo code", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete promo code"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (g *Gateway) listMaterials(c *gin.Context) {
	materials, err := g.store.ListMaterials(c.Request.Context())
	if err != nil {
		g.logger.Error("Failed to list materials", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list materials"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"materials": materials})
}

func (g *Gateway) createMaterial(c *gin.Context) {
	var m models.Material
	if err := c.BindJSON(&m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := g.store.CreateMaterial(c.Request.Context(), &m); err != nil {
		g.logger.Error("Failed to create material", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create material"})
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (g *Gateway) updateMaterial(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var m models.Material
	if err := c.BindJSON(&m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m.ID = uint(id)
	if err := g.store.UpdateMaterial(c.Request.Context(), &m); err != nil {
		g.logger.Error("Failed to update material", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update material"})
		return
	}
	c.JSON(http.StatusOK, m)
}

func (g *Gateway) deleteMaterial(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := g.store.DeleteMaterial(c.Request.Context(), uint(id)); err != nil {
		g.logger.Error("Failed to delete material", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete material"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (g *Gateway) listSuppliers(c *gin.Context) {
	suppliers, err := g.store.ListSuppliers(c.Request.Context())
	if err != nil {
		g.logger.Error("Failed to list suppliers", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list suppliers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"suppliers": suppliers})
}

func (g *Gateway) createSupplier(c *gin.Context) {
	var sp models.Supplier
	if err := c.BindJSON(&sp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := g.store.CreateSupplier(c.Request.Context(), &sp); err != nil {
		g.logger.Error("Failed to create supplier", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create supplier"})
		return
	}
	c.JSON(http.StatusCreated, sp)
}

func (g *Gateway) deleteSupplier(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := g.store.DeleteSupplier(c.Request.Context(), uint(id)); err != nil {
		g.logger.Error("Failed to delete supplier", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete supplier"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (g *Gateway) listGovernorates(c *gin.Context) {
	govs, err := g.store.ListGovernorates(c.Request.Context())
	if err != nil {
		g.logger.Error("Failed to list governorates", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list governorates"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"governorates": govs})
}

func (g *Gateway) upsertGovernorate(c *gin.Context) {
	var gov models.Governorate
	if err := c.BindJSON(&gov); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := g.store.UpsertGovernorate(c.Request.Context(), &gov); err != nil {
		g.logger.Error("Failed to upsert governorate", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save governorate"})
		return
	}
	c.JSON(http.StatusOK, gov)
}

func (g *Gateway) trackShipment(c *gin.Context) {
	shipment, err := g.shipping.Track(c.Request.Context(), c.Param("awb"))
	if err != nil {
		if errors.Is(err, shipping.ErrShipmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "shipment not found"})
			return
		}
		g.logger.Error("Failed to track shipment", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "carrier request failed"})
		return
	}
	c.JSON(http.StatusOK, shipment)
}

func (g *Gateway) listMembers(c *gin.Context) {
	members, err := g.store.ListMembers(c.Request.Context())
	if err != nil {
		g.logger.Error("Failed to list members", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list members"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

func (g *Gateway) setMemberPermissions(c *gin.Context) {
	var perms models.Permissions
	if err := c.BindJSON(&perms); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := g.store.SetMemberPermissions(c.Request.Context(), c.Param("id"), perms); err != nil {
		g.logger.Error("Failed to set member permissions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to set permissions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// businessAnalysis aggregates revenue and order counts over a date
// range using the same effective-total rule the tracking page shows.
func (g *Gateway) businessAnalysis(c *gin.Context) {
	start, end, err := dateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orders, err := g.store.OrdersBetween(c.Request.Context(), start, end)
	if err != nil {
		g.logger.Error("Failed to load orders for analysis", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load orders"})
		return
	}
	c.JSON(http.StatusOK, analytics.Summarize(orders))
}

func (g *Gateway) fullAnalytics(c *gin.Context) {
	start, end, err := dateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := g.analytics.FetchFullReport(c.Request.Context(), start, end)
	if err != nil {
		g.logger.Error("Analytics provider request failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "analytics provider unavailable"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// dateRange parses startDate/endDate query params, defaulting to the
// last 30 days. The end date is inclusive.
func dateRange(c *gin.Context) (time.Time, time.Time, error) {
	const layout = "2006-01-02"
	now := time.Now()
	start := now.AddDate(0, 0, -30)
	end := now

	if s := c.Query("startDate"); s != "" {
		t, err := time.Parse(layout, s)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid startDate")
		}
		start = t
	}
	if s := c.Query("endDate"); s != "" {
		t, err := time.Parse(layout, s)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid endDate")
		}
		end = t.AddDate(0, 0, 1)
	}
	return start, end, nil
}
