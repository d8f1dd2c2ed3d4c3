// Copyright 2025 The Shelfd Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/shelfd/pkg/log"
	"github.com/openshelf/shelfd/pkg/web/controller"
	"github.com/openshelf/shelfd/pkg/web/model"
)

// NewRouter builds a Gin engine with all shelfd routes.
func NewRouter(deps *controller.Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logMiddleware(), accessTokenMiddleware(deps.Config.Server.AccessToken), sessionMiddleware(deps))

	r.GET("/ping", controller.PingHandler)

	auth := r.Group("/auth")
	{
		auth.POST("/login", withAuth(deps, func(c *controller.AuthController) { c.Login() }))
		auth.POST("/logout", withAuth(deps, func(c *controller.AuthController) { c.Logout() }))
		auth.GET("/session", withAuth(deps, func(c *controller.AuthController) { c.GetSession() }))
	}

	r.GET("/roots", withFilesystem(deps, func(c *controller.FilesystemController) { c.GetRoots() }))
	r.GET("/status", withStatus(deps, func(c *controller.StatusController) { c.GetStatus() }))

	items := r.Group("/items")
	{
		items.GET("/:id", withFilesystem(deps, func(c *controller.FilesystemController) { c.GetDetails() }))
		items.DELETE("/:id", withFilesystem(deps, func(c *controller.FilesystemController) { c.Delete() }))
		items.GET("/:id/children", withFilesystem(deps, func(c *controller.FilesystemController) { c.ListChildren() }))
		items.PUT("/:id/name", withFilesystem(deps, func(c *controller.FilesystemController) { c.Rename() }))
		items.POST("/:id/folders", withFilesystem(deps, func(c *controller.FilesystemController) { c.CreateFolder() }))
		items.POST("/:id/content", withFilesystem(deps, func(c *controller.FilesystemController) { c.UploadFile() }))
		items.GET("/:id/content", withFilesystem(deps, func(c *controller.FilesystemController) { c.DownloadFile() }))
		items.PUT("/:id/description", withFilesystem(deps, func(c *controller.FilesystemController) { c.SetDescription() }))
		items.DELETE("/:id/description", withFilesystem(deps, func(c *controller.FilesystemController) { c.RemoveDescription() }))
		items.GET("/:id/permissions", withPermission(deps, func(c *controller.PermissionController) { c.ListPermissions() }))
		items.PUT("/:id/permissions", withPermission(deps, func(c *controller.PermissionController) { c.SetPermission() }))
		items.DELETE("/:id/permissions/:subject", withPermission(deps, func(c *controller.PermissionController) { c.RemovePermission() }))
	}

	transfers := r.Group("/transfers")
	{
		transfers.POST("", withTransfer(deps, func(c *controller.TransferController) { c.ExecuteTransfer() }))
		transfers.POST("/plan", withTransfer(deps, func(c *controller.TransferController) { c.PlanTransfer() }))
	}

	uploads := r.Group("/progress")
	{
		uploads.GET("/:id", withProgress(deps, func(c *controller.ProgressController) { c.GetProgress() }))
		uploads.GET("/:id/watch", withProgress(deps, func(c *controller.ProgressController) { c.WatchProgress() }))
	}

	return r
}

func withAuth(deps *controller.Deps, fn func(*controller.AuthController)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		fn(controller.NewAuthController(ctx, deps))
	}
}

func withFilesystem(deps *controller.Deps, fn func(*controller.FilesystemController)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		fn(controller.NewFilesystemController(ctx, deps))
	}
}

func withPermission(deps *controller.Deps, fn func(*controller.PermissionController)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		fn(controller.NewPermissionController(ctx, deps))
	}
}

func withTransfer(deps *controller.Deps, fn func(*controller.TransferController)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		fn(controller.NewTransferController(ctx, deps))
	}
}

func withStatus(deps *controller.Deps, fn func(*controller.StatusController)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		fn(controller.NewStatusController(ctx, deps))
	}
}

func withProgress(deps *controller.Deps, fn func(*controller.ProgressController)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		fn(controller.NewProgressController(ctx, deps))
	}
}

func accessTokenMiddleware(token string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if token == "" {
			ctx.Next()
			return
		}

		requestedToken := ctx.GetHeader(model.ApiAccessTokenHeader)
		if requestedToken == "" || requestedToken != token {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, model.ErrorResponse{
				Code:  model.ErrorCodeUnauthorized,
				Error: "Unauthorized: invalid or missing header " + model.ApiAccessTokenHeader,
			})
			return
		}

		ctx.Next()
	}
}

// sessionMiddleware resolves the caller identity. Session tokens come
// from the session header; anonymous callers pass through as guests
// unless authentication is required.
func sessionMiddleware(deps *controller.Deps) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if token := ctx.GetHeader(model.SessionTokenHeader); token != "" {
			if s, found := deps.Sessions.Get(token); found {
				ctx.Set(controller.SessionContextKey, s)
				ctx.Next()
				return
			}
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, model.ErrorResponse{
				Code:  model.ErrorCodeUnauthorized,
				Error: "invalid or expired session token",
			})
			return
		}

		if deps.Sessions.AuthenticationRequired() && !isPublicPath(ctx.FullPath()) {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, model.ErrorResponse{
				Code:  model.ErrorCodeUnauthorized,
				Error: "authentication required",
			})
			return
		}

		ctx.Set(controller.SessionContextKey, deps.Sessions.Guest())
		ctx.Next()
	}
}

func isPublicPath(path string) bool {
	switch path {
	case "/ping", "/auth/login", "/auth/session":
		return true
	}
	return false
}

func logMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		log.Info("Requested: %v - %v", ctx.Request.Method, ctx.Request.URL.String())
		ctx.Next()
	}
}
