package api

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100

	// MaxPage keeps Offset within int for every allowed limit.
	MaxPage = math.MaxInt / MaxPageLimit
)

// PageParams is a normalized page/limit pair.
type PageParams struct {
	Page  int
	Limit int
}

func (p PageParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// NewPageParams clamps page to [1, MaxPage] and limit to [1, MaxPageLimit].
func NewPageParams(page, limit int) PageParams {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return PageParams{Page: page, Limit: limit}
}

// ParsePage reads ?page and ?limit from the query string.
func ParsePage(c *gin.Context) PageParams {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return NewPageParams(page, limit)
}
