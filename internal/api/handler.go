package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/naturburst/naturburst.com-sub000/internal/models"
	"github.com/naturburst/naturburst.com-sub000/internal/pricing"
	"github.com/naturburst/naturburst.com-sub000/internal/service"
	"github.com/naturburst/naturburst.com-sub000/internal/util"
	"github.com/naturburst/naturburst.com-sub000/internal/variant"
)

const sessionHeader = "X-Session-ID"

// Handler contains HTTP handlers
type Handler struct {
	catalog  *service.CatalogService
	carts    *service.CartService
	checkout *service.CheckoutService
	contact  *service.ContactService
	prices   *pricing.Resolver
}

// NewHandler creates a new HTTP handler
func NewHandler(
	catalog *service.CatalogService,
	carts *service.CartService,
	checkout *service.CheckoutService,
	contact *service.ContactService,
	prices *pricing.Resolver,
) *Handler {
	return &Handler{
		catalog:  catalog,
		carts:    carts,
		checkout: checkout,
		contact:  contact,
		prices:   prices,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.Use(sessionMiddleware())
	{
		v1.GET("/products", h.listProducts)
		v1.GET("/products/:slug", h.getProduct)
		v1.POST("/products/sort", h.setSort)
		v1.POST("/products/view", h.setViewMode)
		v1.POST("/catalog/refresh", h.refreshCatalog)

		v1.GET("/cart", h.getCart)
		v1.POST("/cart/items", h.addCartItem)
		v1.POST("/cart/batch", h.addCartBatch)
		v1.DELETE("/cart/items/:productID", h.removeCartItem)
		v1.POST("/cart/items/:productID/increment", h.incrementCartItem)
		v1.POST("/cart/items/:productID/decrement", h.decrementCartItem)
		v1.DELETE("/cart", h.clearCart)

		v1.GET("/currency", h.getCurrency)
		v1.PUT("/currency", h.setCurrency)

		v1.POST("/checkout", h.createCheckout)
		v1.GET("/orders", h.listOrders)
		v1.GET("/orders/:id", h.getOrder)
		v1.POST("/contact", h.submitContact)
		v1.POST("/variants/resolve", h.resolveVariant)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// productView is a catalog product with the formatted price pair for the
// session's display currency.
type productView struct {
	models.Product
	Display pricing.Display `json:"display"`
}

// listProducts returns the filtered catalog with display prices
func (h *Handler) listProducts(c *gin.Context) {
	cur, err := h.carts.Currency(c.Request.Context(), sessionID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load currency preference",
			"details": err.Error(),
		})
		return
	}

	products := h.catalog.Products()
	views := make([]productView, 0, len(products))
	for _, p := range products {
		display, err := h.prices.Resolve(p.Price, cur, p.PriceOverrides)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Failed to resolve prices",
				"details": err.Error(),
			})
			return
		}
		views = append(views, productView{Product: p, Display: display})
	}

	c.JSON(http.StatusOK, gin.H{
		"products":  views,
		"currency":  cur,
		"sort":      h.catalog.Sort(),
		"grid_view": h.catalog.GridView(),
	})
}

// getProduct handles product lookup by slug
func (h *Handler) getProduct(c *gin.Context) {
	product, err := h.catalog.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load product",
			"details": err.Error(),
		})
		return
	}

	cur, err := h.carts.Currency(c.Request.Context(), sessionID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load currency preference",
			"details": err.Error(),
		})
		return
	}

	display, err := h.prices.Resolve(product.Price, cur, product.PriceOverrides)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to resolve prices",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product":  productView{Product: product, Display: display},
		"currency": cur,
	})
}

// setSort changes the catalog sort order
func (h *Handler) setSort(c *gin.Context) {
	var req struct {
		Sort models.SortKey `json:"sort" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.catalog.SetSort(req.Sort); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Unsupported sort key",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sort": req.Sort})
}

// setViewMode switches between grid and list presentation
func (h *Handler) setViewMode(c *gin.Context) {
	var req struct {
		Mode string `json:"mode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	switch req.Mode {
	case "grid":
		h.catalog.SetGridView()
	case "list":
		h.catalog.SetListView()
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Mode must be grid or list",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"grid_view": h.catalog.GridView()})
}

// refreshCatalog reloads products from the configured source
func (h *Handler) refreshCatalog(c *gin.Context) {
	if err := h.catalog.Load(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Catalog refresh failed",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "reloaded",
		"products": len(h.catalog.Products()),
	})
}

// getCart returns the session's cart
func (h *Handler) getCart(c *gin.Context) {
	crt, err := h.carts.Get(c.Request.Context(), sessionID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load cart",
			"details": err.Error(),
		})
		return
	}

	h.renderCart(c, http.StatusOK, crt)
}

// addCartItem adds a product to the session's cart
func (h *Handler) addCartItem(c *gin.Context) {
	var req struct {
		ProductID string `json:"product_id" binding:"required"`
		VariantID string `json:"variant_id"`
		Amount    int    `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}
	if req.Amount == 0 {
		req.Amount = 1
	}

	product, err := h.catalog.GetByID(req.ProductID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}

	crt, err := h.carts.AddItem(c.Request.Context(), sessionID(c), product, req.VariantID, req.Amount)
	if err != nil {
		h.cartError(c, err)
		return
	}

	h.renderCart(c, http.StatusCreated, crt)
}

// addCartBatch adds several products in one call. Kept for clients that
// submit the whole selection at once; items referencing unknown products
// are skipped.
func (h *Handler) addCartBatch(c *gin.Context) {
	var req struct {
		Items []struct {
			ID         string            `json:"id" binding:"required"`
			Quantity   int               `json:"quantity"`
			Properties map[string]string `json:"properties"`
		} `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	var crt models.Cart
	added := 0
	for _, item := range req.Items {
		product, err := h.catalog.GetByID(item.ID)
		if err != nil {
			continue
		}

		amount := item.Quantity
		if amount == 0 {
			amount = 1
		}

		variantID := ""
		if len(item.Properties) > 0 {
			if id, err := variant.Resolve(product, item.Properties); err == nil {
				variantID = id
			}
		}

		crt, err = h.carts.AddItem(c.Request.Context(), sessionID(c), product, variantID, amount)
		if err != nil {
			h.cartError(c, err)
			return
		}
		added++
	}

	if added == 0 {
		var err error
		crt, err = h.carts.Get(c.Request.Context(), sessionID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Failed to load cart",
				"details": err.Error(),
			})
			return
		}
	}

	h.renderCart(c, http.StatusCreated, crt)
}

// removeCartItem deletes a line from the session's cart
func (h *Handler) removeCartItem(c *gin.Context) {
	crt, err := h.carts.RemoveItem(c.Request.Context(), sessionID(c), c.Param("productID"))
	if err != nil {
		h.cartError(c, err)
		return
	}

	h.renderCart(c, http.StatusOK, crt)
}

// incrementCartItem adds one to a line's amount
func (h *Handler) incrementCartItem(c *gin.Context) {
	crt, err := h.carts.IncrementItem(c.Request.Context(), sessionID(c), c.Param("productID"))
	if err != nil {
		h.cartError(c, err)
		return
	}

	h.renderCart(c, http.StatusOK, crt)
}

// decrementCartItem subtracts one from a line's amount, flooring at 1
func (h *Handler) decrementCartItem(c *gin.Context) {
	crt, err := h.carts.DecrementItem(c.Request.Context(), sessionID(c), c.Param("productID"))
	if err != nil {
		h.cartError(c, err)
		return
	}

	h.renderCart(c, http.StatusOK, crt)
}

// clearCart empties the session's cart
func (h *Handler) clearCart(c *gin.Context) {
	crt, err := h.carts.Clear(c.Request.Context(), sessionID(c))
	if err != nil {
		h.cartError(c, err)
		return
	}

	h.renderCart(c, http.StatusOK, crt)
}

// getCurrency returns the session's display currency
func (h *Handler) getCurrency(c *gin.Context) {
	cur, err := h.carts.Currency(c.Request.Context(), sessionID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load currency preference",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"currency":  cur,
		"supported": models.Currencies,
	})
}

// setCurrency updates the session's display currency
func (h *Handler) setCurrency(c *gin.Context) {
	var req struct {
		Currency models.Currency `json:"currency" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.carts.SetCurrency(c.Request.Context(), sessionID(c), req.Currency); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Unsupported currency",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"currency": req.Currency})
}

// createCheckout settles the session's cart into an order
func (h *Handler) createCheckout(c *gin.Context) {
	order, err := h.checkout.Checkout(c.Request.Context(), sessionID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Cart is empty",
			})
		case errors.Is(err, service.ErrCartBusy):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Cart is busy, retry shortly",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Checkout failed",
				"details": err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"order": order})
}

// listOrders returns the session's checkout history
func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.checkout.Orders(c.Request.Context(), sessionID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load orders",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// getOrder handles get order by ID
func (h *Handler) getOrder(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID",
		})
		return
	}

	order, items, err := h.checkout.Order(c.Request.Context(), sessionID(c), orderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load order",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
		"items": items,
	})
}

// submitContact relays a contact message to the form provider. Delivery
// problems surface as a status in the body, never as a server error.
func (h *Handler) submitContact(c *gin.Context) {
	var req struct {
		Name    string `json:"name" binding:"required"`
		Email   string `json:"email" binding:"required,email"`
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	delivered := h.contact.Relay(c.Request.Context(), sessionID(c), service.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})

	status := "sent"
	if !delivered {
		status = "failed"
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

// resolveVariant picks the variant matching the submitted option selection
func (h *Handler) resolveVariant(c *gin.Context) {
	var req struct {
		Slug            string            `json:"slug" binding:"required"`
		SelectedOptions map[string]string `json:"selected_options"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	product, err := h.catalog.GetBySlug(req.Slug)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}

	variantID, err := variant.Resolve(product, req.SelectedOptions)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "Product has no variants",
			"details": err.Error(),
		})
		return
	}

	available := false
	for _, v := range product.Variants {
		if v.ID == variantID {
			available = v.Available
			break
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"variant_id": variantID,
		"available":  available,
	})
}

// renderCart writes the cart with the total formatted for the session currency
func (h *Handler) renderCart(c *gin.Context, status int, crt models.Cart) {
	cur, err := h.carts.Currency(c.Request.Context(), sessionID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load currency preference",
			"details": err.Error(),
		})
		return
	}

	totalDisplay, err := pricing.Format(crt.TotalAmount, cur)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to format cart total",
			"details": err.Error(),
		})
		return
	}

	c.JSON(status, gin.H{
		"cart":          crt,
		"currency":      cur,
		"total_display": totalDisplay,
	})
}

func (h *Handler) cartError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrCartBusy) {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Cart is busy, retry shortly",
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "Cart update failed",
		"details": err.Error(),
	})
}

// sessionMiddleware ensures every request carries a session ID, minting one
// for first-time visitors and echoing it back so the client can persist it.
func sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(sessionHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("session_id", id)
		c.Header(sessionHeader, id)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString("session_id")
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
