package routes

import (
	"Comodin/controllers"
	"Comodin/middleware"
	utils "Comodin/utils"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, engine *controllers.EngineController, runs *controllers.RunController, tokens *middleware.TokenService) {
	// utils global
	router.Use(utils.Logger(), utils.ErrorHandler())

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/")

	api.GET("/ping", controllers.Ping)

	api.GET("/jokers", engine.ListJokers)
	api.GET("/jokers/:id", engine.GetJoker)

	api.GET("/tags", engine.ListTags)
	api.GET("/tags/:id", engine.GetTag)

	api.GET("/vouchers", engine.ListVouchers)
	api.GET("/vouchers/:id", engine.GetVoucher)

	api.GET("/filters", engine.ListFilters)
	api.POST("/filters/apply", engine.ApplyFilter)

	api.POST("/score", engine.Score)

	api.POST("/runs", runs.CreateRun)
	api.POST("/runs/login", runs.LoginRun)

	authentication := api.Group("/auth")
	authentication.Use(middleware.AuthRequired(tokens))
	{
		authentication.DELETE("/runs/logout", runs.LogoutRun)

		authentication.GET("/runs/state", runs.GetState)
		authentication.PUT("/runs/state", runs.PutState)

		authentication.POST("/runs/vouchers/:id", runs.PurchaseVoucher)

		authentication.POST("/runs/round/start", runs.StartRound)
		authentication.POST("/runs/hands", runs.PlayHand)
		authentication.POST("/runs/discards", runs.Discard)
		authentication.POST("/runs/round/end", runs.EndRound)
		authentication.POST("/runs/skip/:tag", runs.SkipBlind)

		authentication.DELETE("/runs/jokers/:slot", runs.SellJoker)

		authentication.GET("/runs/shop", runs.GetShop)
		authentication.POST("/runs/shop/reroll", runs.Reroll)
		authentication.POST("/runs/shop/items/:item", runs.Buy)
		authentication.GET("/runs/shop/packs/:item", runs.GetPack)
	}
}
