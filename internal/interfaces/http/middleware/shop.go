package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/infrastructure/logger"
)

// ShopKey is the gin context key of the shop a request acts on
const ShopKey = "shop"

// ShopContext binds every request to the configured shop so logs and
// spans can be filtered by store
func ShopContext(shop string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ShopKey, shop)
		c.Request = c.Request.WithContext(logger.WithShop(c.Request.Context(), shop))
		c.Next()
	}
}
