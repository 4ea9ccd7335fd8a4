package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Business error codes carried alongside the HTTP status.
const (
	CodeOK           = 0
	CodeInvalidParam = 40001
	CodeConflict     = 40901
	CodeAuth         = 40101
	CodeForbidden    = 40301
	CodeNotFound     = 40401
	CodeServerErr    = 50001
)

// JSON sends data with a 200 status.
func JSON(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created sends data with a 201 status.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// NoContent sends an empty 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends the unified error envelope.
func Error(c *gin.Context, httpStatus int, code int, detail string) {
	c.JSON(httpStatus, gin.H{
		"code":   code,
		"detail": detail,
	})
}
