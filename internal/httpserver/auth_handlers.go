package httpserver

import (
	"net/http"

	"storefront/internal/domain"
	usersvc "storefront/internal/service/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message      string `json:"message"`
	SessionToken string `json:"sessionToken"`
	UserID       string `json:"userId"`
	UserName     string `json:"userName"`
	UserEmail    string `json:"userEmail"`
}

func signupHandler(logger *zap.Logger, svc UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req usersvc.SignupInput
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		u, err := svc.Signup(c.Request.Context(), req)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Signup successful", "userId": u.ID})
	}
}

func loginHandler(logger *zap.Logger, svc UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		u, token, err := svc.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, loginResponse{
			Message:      "Login successful",
			SessionToken: token,
			UserID:       u.ID,
			UserName:     u.Name,
			UserEmail:    u.Email,
		})
	}
}

func logoutHandler(logger *zap.Logger, svc UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			writeError(c, logger, domain.ErrUnauthorized)
			return
		}
		if err := svc.Logout(c.Request.Context(), token); err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	}
}

func meHandler(logger *zap.Logger, svc UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			writeError(c, logger, domain.ErrUnauthorized)
			return
		}
		u, err := svc.LookupByToken(c.Request.Context(), token)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

func getUserHandler(logger *zap.Logger, svc UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := svc.Get(c.Request.Context(), c.Param("userId"))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

func updateProfileHandler(logger *zap.Logger, svc UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req usersvc.ProfileUpdate
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		u, err := svc.UpdateProfile(c.Request.Context(), c.Param("userId"), req)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "user": u})
	}
}
