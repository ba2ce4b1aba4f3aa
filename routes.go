package main

import "github.com/gin-gonic/gin"

func SetupRoutes(r *gin.Engine) {

	api := r.Group("/api")
	api.Use(RequireStore())
	{
		api.GET("/health", HealthCheck)

		// Public: the registration form and the admin list view
		api.POST("/registrations", CreateRegistrations)
		api.GET("/registrations", ListRegistrations)
		api.GET("/registrations/:id", GetRegistration)

		api.POST("/admin/login", AdminLogin)

		// Mutations require an admin token
		admin := api.Group("")
		admin.Use(AdminAuthMiddleware())
		{
			admin.PUT("/registrations/:id", UpdateRegistration)
			admin.PATCH("/registrations/:id/register", PatchRegistrationStatus)
			admin.DELETE("/registrations/:id", DeleteRegistration)
		}
	}
}
