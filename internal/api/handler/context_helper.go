package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/philippe-delaval/Lesot-bon/internal/api/middleware"
	"github.com/philippe-delaval/Lesot-bon/internal/policy"
)

// actorFrom rebuilds the policy actor from the auth middleware context.
func actorFrom(c *gin.Context) policy.Actor {
	return policy.Actor{
		UserID: c.GetString(middleware.CtxUserID),
		Role:   c.GetString(middleware.CtxRole),
	}
}

// currentUserID returns the authenticated principal's ID.
func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.CtxUserID)
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// pagination parses ?page and ?page_size with sane bounds.
func pagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
