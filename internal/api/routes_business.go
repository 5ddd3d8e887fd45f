package api

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/corpman/internal/handlers"
)

type businessRouteDeps struct {
	Businesses   *handlers.BusinessHandler
	Customers    *handlers.CustomerHandler
	Assets       *handlers.AssetHandler
	Transactions *handlers.TransactionHandler
	Roles        gin.HandlerFunc
}

func registerBusinessRoutes(member *gin.RouterGroup, deps businessRouteDeps) {
	businesses := member.Group("/businesses", deps.Roles)
	{
		businesses.POST("", deps.Businesses.Create)
		businesses.GET("/me", deps.Businesses.Mine)
	}

	customers := member.Group("/customers", deps.Roles)
	{
		customers.POST("", deps.Customers.Create)
		customers.GET("", deps.Customers.List)
		customers.GET("/:id", deps.Customers.Get)
	}

	assets := member.Group("/assets", deps.Roles)
	{
		assets.POST("", deps.Assets.Create)
		assets.GET("", deps.Assets.List)
	}

	transactions := member.Group("/transactions", deps.Roles)
	{
		transactions.PUT("/settings/:type", deps.Transactions.UpsertSetting)
		transactions.POST("", deps.Transactions.Create)
		transactions.GET("", deps.Transactions.List)
		transactions.GET("/:id", deps.Transactions.Get)
		transactions.POST("/:id/approve", deps.Transactions.Approve)
	}
}
