package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Open-Coding-Society/optivize-backend/models"
)

type EmployeesHandler struct {
	db *gorm.DB
}

func NewEmployeesHandler(db *gorm.DB) *EmployeesHandler {
	return &EmployeesHandler{db: db}
}

type employeeRequest struct {
	Name     *string `json:"name"`
	Position *string `json:"position"`
	WorkTime *string `json:"work_time"`
}

func (h *EmployeesHandler) List(c *gin.Context) {
	var employees []models.Employee
	if err := h.db.Order("name").Find(&employees).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": employees})
}

func (h *EmployeesHandler) Create(c *gin.Context) {
	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	var missing []string
	if req.Name == nil {
		missing = append(missing, "name")
	}
	if req.Position == nil {
		missing = append(missing, "position")
	}
	if len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields", "missing": missing})
		return
	}

	employee := models.Employee{Name: *req.Name, Position: *req.Position}
	if req.WorkTime != nil {
		employee.WorkTime = *req.WorkTime
	}
	if err := h.db.Create(&employee).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create employee"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "employee": employee})
}

func (h *EmployeesHandler) Update(c *gin.Context) {
	var employee models.Employee
	if err := h.db.First(&employee, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Employee not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	if req.Name != nil {
		employee.Name = *req.Name
	}
	if req.Position != nil {
		employee.Position = *req.Position
	}
	if req.WorkTime != nil {
		employee.WorkTime = *req.WorkTime
	}

	if err := h.db.Save(&employee).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update employee"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "employee": employee})
}

func (h *EmployeesHandler) Delete(c *gin.Context) {
	var employee models.Employee
	if err := h.db.First(&employee, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Employee not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	if err := h.db.Delete(&employee).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete employee"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "employee_id": employee.ID})
}
