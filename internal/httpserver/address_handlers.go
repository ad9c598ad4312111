package httpserver

import (
	"net/http"

	usersvc "storefront/internal/service/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type addAddressRequest struct {
	UserID  string               `json:"userId"`
	Address usersvc.AddressInput `json:"address"`
}

type locationRequest struct {
	UserID   string `json:"userId"`
	Location string `json:"location"`
}

func listAddressesHandler(logger *zap.Logger, svc UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		book, err := svc.ListAddresses(c.Request.Context(), c.Param("userId"))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, book)
	}
}

func addAddressHandler(logger *zap.Logger, svc UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addAddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		book, err := svc.AddAddress(c.Request.Context(), req.UserID, req.Address)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Address added", "addresses": book})
	}
}

func updateAddressHandler(logger *zap.Logger, svc UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req usersvc.AddressInput
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		book, err := svc.UpdateAddress(c.Request.Context(), c.Param("userId"), c.Param("addressId"), req)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Address updated", "addresses": book})
	}
}

func deleteAddressHandler(logger *zap.Logger, svc UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		book, err := svc.DeleteAddress(c.Request.Context(), c.Param("userId"), c.Param("addressId"))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Address deleted", "addresses": book})
	}
}

func setLocationHandler(logger *zap.Logger, svc UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req locationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		loc, err := svc.SetLocation(c.Request.Context(), req.UserID, req.Location)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Location updated", "location": loc})
	}
}
