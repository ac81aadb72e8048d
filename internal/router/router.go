package router

import (
	"feedboard/internal/db"
	"feedboard/internal/handlers"
	"feedboard/internal/middleware"
	"feedboard/internal/votes"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	voteService := votes.NewService(votes.NewGormLedger(db.DB))

	// Handlers
	authHandler := handlers.NewAuthHandler()
	featureHandler := handlers.NewFeatureHandler(voteService)
	bugHandler := handlers.NewBugHandler(voteService)
	voteHandler := handlers.NewVoteHandler(voteService)
	commentHandler := handlers.NewCommentHandler()
	productHandler := handlers.NewProductHandler()
	attachmentHandler := handlers.NewAttachmentHandler()

	// Public routes
	r.POST("/signup", authHandler.Register)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)
	r.GET("/me", authHandler.Me)

	r.GET("/features", featureHandler.List)        // feature board (filters + sort)
	r.GET("/features/:fid", featureHandler.Detail) // feature detail
	r.GET("/bugs", bugHandler.List)                // bug board (filters + sort)
	r.GET("/bugs/:bid", bugHandler.Detail)         // bug detail
	r.GET("/products", productHandler.List)        // product catalog

	// Protected routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/features", featureHandler.Create)
		authorized.POST("/features/:fid/edit", featureHandler.Update)
		authorized.POST("/features/:fid/status", featureHandler.UpdateStatus)
		authorized.DELETE("/features/:fid", featureHandler.Delete) // soft delete
		authorized.POST("/features/:fid/restore", featureHandler.Restore)
		authorized.DELETE("/features/:fid/purge", featureHandler.Purge)
		authorized.GET("/graveyard", featureHandler.Graveyard)

		authorized.POST("/bugs", bugHandler.Create)
		authorized.POST("/bugs/:bid/edit", bugHandler.Update)
		authorized.POST("/bugs/:bid/status", bugHandler.UpdateStatus)

		authorized.POST("/vote/:type/:id", voteHandler.Cast)
		authorized.GET("/vote/:type/:id", voteHandler.Status)
		authorized.GET("/vote/:type/:id/counts", voteHandler.Counts)

		authorized.POST("/items/:type/:id/comments", commentHandler.Create)
		authorized.POST("/comments/:cid/edit", commentHandler.Update)

		authorized.POST("/attachments", attachmentHandler.Upload)
	}
}
