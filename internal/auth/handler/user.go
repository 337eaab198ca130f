package handler

import (
	"net/http"

	"github.com/BarnaTB/employee-leave-system/internal/employee"
	"github.com/BarnaTB/employee-leave-system/internal/logger"
	"github.com/BarnaTB/employee-leave-system/internal/middleware"

	"github.com/gin-gonic/gin"
)

type userResponse struct {
	ID        int64         `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	AvatarURL string        `json:"avatarUrl"`
	Role      employee.Role `json:"role"`
}

func newUserResponse(e *employee.Employee) userResponse {
	return userResponse{
		ID:        e.ID,
		Name:      e.Name,
		Email:     e.Email,
		AvatarURL: e.AvatarURL,
		Role:      e.Role,
	}
}

// user returns the signed-in employee's public profile.
func (h *Handler) user(c *gin.Context) {
	sess, ok := middleware.SessionFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Authentication failed",
			"message": "no session",
		})
		return
	}

	emp, err := h.employees.FindByID(c.Request.Context(), sess.EmployeeID)
	if err != nil {
		logger.Error("employee lookup failed", map[string]any{
			"employee_id": sess.EmployeeID,
			"error":       err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal error",
			"message": "internal server error",
		})
		return
	}
	if emp == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not found",
			"message": "employee not found",
		})
		return
	}

	c.JSON(http.StatusOK, newUserResponse(emp))
}
