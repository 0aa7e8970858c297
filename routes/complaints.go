package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gas-complaint-server/middleware"
	"gas-complaint-server/models"
	"gas-complaint-server/services"
)

// CreateComplaintRequest represents the complaint filing request
type CreateComplaintRequest struct {
	GasFileNumber      string              `json:"gas_file_number"`
	ProjectAddress     string              `json:"project_address" binding:"required"`
	ContactPhoneNumber string              `json:"contact_phone_number" binding:"required"`
	SupervisorID       string              `json:"supervisor_id" binding:"required"`
	ExecutorID         string              `json:"executor_id" binding:"required"`
	ComplaintType      string              `json:"complaint_type" binding:"required"`
	Description        string              `json:"description"`
	Attachments        []models.Attachment `json:"attachments"`
}

// ReferRequest names the engineer role a complaint is routed to
type ReferRequest struct {
	Target string `json:"target" binding:"required"`
}

// CommentRequest represents a response on a complaint
type CommentRequest struct {
	Text        string              `json:"text" binding:"required"`
	Attachments []models.Attachment `json:"attachments"`
}

// ReturnRequest bounces a complaint for missing documentation
type ReturnRequest struct {
	Reason     string `json:"reason" binding:"required"`
	TargetRole string `json:"target_role" binding:"required"`
}

// VerdictRequest carries the terminal decision
type VerdictRequest struct {
	Verdict string `json:"verdict" binding:"required"`
}

// complaintView shapes a complaint for the requesting user: comments are
// filtered per the visibility rule and the derived response eligibility is
// included.
func complaintView(svc *services.ComplaintService, c *models.Complaint, viewer *models.User) gin.H {
	view := *c
	view.Comments = svc.VisibleComments(c, viewer)
	return gin.H{
		"complaint":    view,
		"status_label": c.Status.PersianLabel(),
		"can_respond":  svc.CanRespond(c, viewer),
	}
}

// RegisterComplaintRoutes registers the complaint lifecycle routes. Admin
// gating of refer/return/verdict happens in the route setup; the service
// enforces the same guards again.
func RegisterComplaintRoutes(rg *gin.RouterGroup, svc *services.ComplaintService) {
	rg.GET("", func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)
		complaints := svc.ListFor(user)

		views := make([]gin.H, 0, len(complaints))
		for i := range complaints {
			views = append(views, complaintView(svc, &complaints[i], user))
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Complaints retrieved successfully",
			"data":    views,
		})
	})

	rg.POST("", func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		var req CreateComplaintRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request data",
				"message": err.Error(),
			})
			return
		}

		complaint, err := svc.Create(user, services.CreateComplaintInput{
			GasFileNumber:      req.GasFileNumber,
			ProjectAddress:     req.ProjectAddress,
			ContactPhoneNumber: req.ContactPhoneNumber,
			SupervisorID:       req.SupervisorID,
			ExecutorID:         req.ExecutorID,
			ComplaintType:      models.ComplaintType(req.ComplaintType),
			Description:        req.Description,
			Attachments:        req.Attachments,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Complaint filed successfully",
			"data":    complaintView(svc, complaint, user),
		})
	})

	rg.GET("/:id", func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		complaint, err := svc.Get(user, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Complaint retrieved successfully",
			"data":    complaintView(svc, complaint, user),
		})
	})

	rg.POST("/:id/comments", func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		var req CommentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request data",
				"message": err.Error(),
			})
			return
		}

		complaint, err := svc.AddComment(user, c.Param("id"), req.Text, req.Attachments)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Comment added successfully",
			"data":    complaintView(svc, complaint, user),
		})
	})
}

// RegisterComplaintAdminRoutes registers the admin-only lifecycle routes.
func RegisterComplaintAdminRoutes(rg *gin.RouterGroup, svc *services.ComplaintService) {
	rg.POST("/:id/refer", func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		var req ReferRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request data",
				"message": err.Error(),
			})
			return
		}

		complaint, err := svc.Refer(user, c.Param("id"), models.ReferralTarget(req.Target))
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Complaint referred successfully",
			"data":    complaintView(svc, complaint, user),
		})
	})

	rg.POST("/:id/return", func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		var req ReturnRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request data",
				"message": err.Error(),
			})
			return
		}

		complaint, err := svc.ReturnComplaint(user, c.Param("id"), req.Reason, models.Role(req.TargetRole))
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Complaint returned for investigation",
			"data":    complaintView(svc, complaint, user),
		})
	})

	rg.POST("/:id/verdict", func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)

		var req VerdictRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request data",
				"message": err.Error(),
			})
			return
		}

		complaint, err := svc.AddFinalVerdict(user, c.Param("id"), req.Verdict)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Final verdict recorded",
			"data":    complaintView(svc, complaint, user),
		})
	})
}
