package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Open-Coding-Society/optivize-backend/models"
)

type ShipmentsHandler struct {
	db *gorm.DB
}

func NewShipmentsHandler(db *gorm.DB) *ShipmentsHandler {
	return &ShipmentsHandler{db: db}
}

type shipmentRequest struct {
	Inventory       *string `json:"inventory"`
	Amount          *int    `json:"amount"`
	TransportMethod *string `json:"transport_method"`
	ShipmentTime    *string `json:"shipment_time"`
	Destination     *string `json:"destination"`
	DeliveryDate    *string `json:"delivery_date"`
}

func (h *ShipmentsHandler) List(c *gin.Context) {
	var shipments []models.Shipment
	if err := h.db.Order("id").Find(&shipments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": shipments})
}

func (h *ShipmentsHandler) Create(c *gin.Context) {
	var req shipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	var missing []string
	if req.Inventory == nil {
		missing = append(missing, "inventory")
	}
	if req.Amount == nil {
		missing = append(missing, "amount")
	}
	if req.TransportMethod == nil {
		missing = append(missing, "transport_method")
	}
	if len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields", "missing": missing})
		return
	}

	shipment := models.Shipment{
		Inventory:       *req.Inventory,
		Amount:          *req.Amount,
		TransportMethod: *req.TransportMethod,
		Destination:     req.Destination,
	}
	if req.ShipmentTime != nil {
		shipment.ShipmentTime = *req.ShipmentTime
	}
	if req.DeliveryDate != nil {
		d, err := time.Parse(time.RFC3339, *req.DeliveryDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "delivery_date must be RFC3339"})
			return
		}
		shipment.DeliveryDate = &d
	}

	if err := h.db.Create(&shipment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create shipment"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "shipment": shipment})
}

func (h *ShipmentsHandler) Update(c *gin.Context) {
	var shipment models.Shipment
	if err := h.db.First(&shipment, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Shipment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	var req shipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	if req.Inventory != nil {
		shipment.Inventory = *req.Inventory
	}
	if req.Amount != nil {
		shipment.Amount = *req.Amount
	}
	if req.TransportMethod != nil {
		shipment.TransportMethod = *req.TransportMethod
	}
	if req.ShipmentTime != nil {
		shipment.ShipmentTime = *req.ShipmentTime
	}
	if req.Destination != nil {
		shipment.Destination = req.Destination
	}
	if req.DeliveryDate != nil {
		d, err := time.Parse(time.RFC3339, *req.DeliveryDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "delivery_date must be RFC3339"})
			return
		}
		shipment.DeliveryDate = &d
	}

	if err := h.db.Save(&shipment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update shipment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "shipment": shipment})
}

func (h *ShipmentsHandler) Delete(c *gin.Context) {
	var shipment models.Shipment
	if err := h.db.First(&shipment, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Shipment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	if err := h.db.Delete(&shipment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete shipment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "shipment_id": shipment.ID})
}
