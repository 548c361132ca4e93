package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"teakspice-storefront/internal/catalog"
	"teakspice-storefront/internal/modal"
	"teakspice-storefront/internal/render"
	"teakspice-storefront/internal/shop"
	"teakspice-storefront/internal/tracker"
)

const htmlContentType = "text/html; charset=utf-8"

// ----- Products -----

func (s *Server) listProducts(c *gin.Context) {
	products, err := s.catalog.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, products)
}

// ----- Session -----

func (s *Server) createSession(c *gin.Context) {
	sess := s.sessions.Create()
	token, err := s.issueToken(sess.ID)
	if err != nil {
		s.sessions.Remove(sess.ID)
		respondError(c, err)
		return
	}
	c.JSON(200, gin.H{"sessionId": sess.ID, "token": token})
}

func (s *Server) endSession(c *gin.Context) {
	s.sessions.Remove(currentSession(c).ID)
	c.JSON(200, gin.H{"status": "ended"})
}

// ----- Cart -----

type addToCartReq struct {
	Name  string `json:"name" binding:"required"`
	Price *int64 `json:"price"`
}

func (s *Server) getCart(c *gin.Context) {
	s.respondCart(c, currentSession(c).Cart())
}

func (s *Server) addToCart(c *gin.Context) {
	var req addToCartReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid input"})
		return
	}

	name, price := req.Name, int64(0)
	if req.Price != nil {
		price = *req.Price
	} else {
		p, err := s.catalog.FindByName(c.Request.Context(), req.Name)
		if errors.Is(err, catalog.ErrNotFound) {
			respondError(c, shop.NewInvalidArgumentf("price is required for unknown product %q", req.Name))
			return
		}
		if err != nil {
			respondError(c, err)
			return
		}
		name, price = p.Name, p.Price
	}

	items, err := currentSession(c).AddItem(name, price)
	if err != nil {
		respondError(c, err)
		return
	}
	s.respondCart(c, items)
}

func (s *Server) increaseQuantity(c *gin.Context) {
	s.cartAt(c, func(index int) ([]shop.LineItem, error) {
		return currentSession(c).IncreaseQuantity(index)
	})
}

func (s *Server) decreaseQuantity(c *gin.Context) {
	s.cartAt(c, func(index int) ([]shop.LineItem, error) {
		return currentSession(c).DecreaseQuantity(index)
	})
}

func (s *Server) removeCartItem(c *gin.Context) {
	s.cartAt(c, func(index int) ([]shop.LineItem, error) {
		return currentSession(c).RemoveItem(index)
	})
}

func (s *Server) cartAt(c *gin.Context, op func(int) ([]shop.LineItem, error)) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respondError(c, shop.NewInvalidArgumentf("invalid cart position %q", c.Param("index")))
		return
	}
	items, err := op(index)
	if err != nil {
		respondError(c, err)
		return
	}
	s.respondCart(c, items)
}

func (s *Server) respondCart(c *gin.Context, items []shop.LineItem) {
	view := s.render.Cart(items)
	if c.Query("format") != "html" {
		c.JSON(200, view)
		return
	}
	html, err := s.render.CartHTML(view)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(200, htmlContentType, []byte(html))
}

// ----- Orders -----

func (s *Server) checkout(c *gin.Context) {
	order, ok := currentSession(c).Checkout()
	if !ok {
		c.JSON(200, gin.H{"success": false, "message": "Cart is empty"})
		return
	}
	c.JSON(200, gin.H{
		"success": true,
		"message": "Order placed successfully",
		"order":   s.render.Order(order),
	})
}

func (s *Server) getOrders(c *gin.Context) {
	c.JSON(200, s.render.Orders(currentSession(c).Orders()))
}

func (s *Server) getOrder(c *gin.Context) {
	order, ok := currentSession(c).FindOrder(strings.TrimSpace(c.Param("orderId")))
	if !ok {
		respondError(c, shop.NewNotFound(shop.ErrMsgOrderNotFound))
		return
	}
	c.JSON(200, s.render.Order(order))
}

// ----- Tracker -----

type trackReq struct {
	OrderID string `json:"orderId"`
}

func (s *Server) getTracker(c *gin.Context) {
	s.respondTracker(c, http.StatusOK, currentSession(c).TrackerStatus())
}

func (s *Server) trackOrder(c *gin.Context) {
	var req trackReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid input"})
		return
	}

	sess := currentSession(c)
	err := sess.TrackOrder(req.OrderID)
	switch {
	case errors.Is(err, tracker.ErrEmptyOrderID):
		s.respondTracker(c, http.StatusBadRequest, sess.TrackerStatus())
	case err != nil:
		respondError(c, err)
	default:
		s.log.Debug("tracking order", zap.String("order_id", req.OrderID))
		s.respondTracker(c, http.StatusAccepted, sess.TrackerStatus())
	}
}

func (s *Server) respondTracker(c *gin.Context, status int, st tracker.Status) {
	view := s.render.Tracker(st)
	if c.Query("format") != "html" {
		c.JSON(status, view)
		return
	}
	html, err := s.render.TrackerHTML(view)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(status, htmlContentType, []byte(html))
}

// ----- Panels -----

func (s *Server) getPanels(c *gin.Context) {
	c.JSON(200, render.PanelsView(currentSession(c).Panels()))
}

func (s *Server) openPanel(c *gin.Context) {
	s.togglePanel(c, true)
}

func (s *Server) closePanel(c *gin.Context) {
	s.togglePanel(c, false)
}

func (s *Server) togglePanel(c *gin.Context, open bool) {
	panel, err := modal.Parse(c.Param("panel"))
	if err != nil {
		respondError(c, err)
		return
	}
	sess := currentSession(c)
	if open {
		sess.OpenPanel(panel)
	} else {
		sess.ClosePanel(panel)
	}
	c.JSON(200, render.PanelsView(sess.Panels()))
}
