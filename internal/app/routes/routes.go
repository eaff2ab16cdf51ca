package routes

import (
	"github.com/gin-gonic/gin"
	appauth "github.com/yigit/alumnihub/internal/app/auth"
	"github.com/yigit/alumnihub/internal/app/controllers"
	"github.com/yigit/alumnihub/internal/middleware"
	"github.com/yigit/alumnihub/internal/pkg/websocket"
)

// Controllers groups every HTTP handler the router mounts
type Controllers struct {
	Auth         *controllers.AuthController
	Profile      *controllers.ProfileController
	Membership   *controllers.MembershipController
	Tier         *controllers.TierController
	Event        *controllers.EventController
	User         *controllers.UserController
	Notification *controllers.NotificationController
	Gallery      *controllers.GalleryController
	Site         *controllers.SiteController
	Upload       *controllers.UploadController
	WebSocket    *websocket.Handler
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c *Controllers, authMiddleware *middleware.AuthMiddleware) {
	can := authMiddleware.Authorize

	// API version group
	v1 := router.Group("/api/v1")

	v1.GET("/health", c.Site.Health)

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", c.Auth.Login)
		auth.POST("/refresh", c.Auth.RefreshToken)
		auth.GET("/google/login", c.Auth.GoogleLogin)
		auth.GET("/google/callback", c.Auth.GoogleCallback)
	}

	// --- Public content ---
	v1.GET("/membership/tiers", c.Tier.ListTiers)
	v1.GET("/membership-tiers/:tierId", c.Tier.GetTier)
	v1.GET("/events", c.Event.ListEvents)
	v1.GET("/events/:id", authMiddleware.OptionalAuth(), c.Event.GetEvent)
	v1.GET("/gallery", c.Gallery.ListItems)
	v1.GET("/albums", c.Gallery.ListAlbums)
	v1.GET("/albums/:albumId", c.Gallery.GetAlbum)
	v1.GET("/committee", c.Site.ListCommittee)

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	profile := authenticated.Group("/profile")
	{
		profile.GET("", can(appauth.ResourceProfile, appauth.ActionRead), c.Profile.GetProfile)
		profile.POST("", can(appauth.ResourceProfile, appauth.ActionUpdate), c.Profile.SubmitProfile)
	}

	membership := authenticated.Group("/membership")
	{
		membership.GET("", can(appauth.ResourceMembership, appauth.ActionRead), c.Membership.GetCurrent)
		membership.POST("", can(appauth.ResourceMembership, appauth.ActionApply), c.Membership.Apply)
		membership.PATCH("/:id/cancel", can(appauth.ResourceMembership, appauth.ActionCancel), c.Membership.Cancel)
		membership.POST("/renew", can(appauth.ResourceMembership, appauth.ActionRenew), c.Membership.Renew)
	}

	tiers := authenticated.Group("/membership-tiers")
	{
		tiers.POST("", can(appauth.ResourceMembershipTier, appauth.ActionCreate), c.Tier.CreateTier)
		tiers.PATCH("/:tierId", can(appauth.ResourceMembershipTier, appauth.ActionUpdate), c.Tier.UpdateTier)
		tiers.DELETE("/:tierId", can(appauth.ResourceMembershipTier, appauth.ActionDelete), c.Tier.DeleteTier)
	}

	events := authenticated.Group("/events")
	{
		events.POST("", can(appauth.ResourceEvent, appauth.ActionCreate), c.Event.CreateEvent)
		events.PATCH("/:id", can(appauth.ResourceEvent, appauth.ActionUpdate), c.Event.UpdateEvent)
		events.DELETE("/:id", can(appauth.ResourceEvent, appauth.ActionDelete), c.Event.DeleteEvent)
		events.POST("/:id/join", can(appauth.ResourceEvent, appauth.ActionJoin), c.Event.JoinEvent)
		events.DELETE("/:id/join", can(appauth.ResourceEvent, appauth.ActionLeave), c.Event.LeaveEvent)

		events.GET("/payments", can(appauth.ResourceEventPayment, appauth.ActionList), c.Event.ListPayments)
		events.POST("/:id/payments/:paymentId/approve", can(appauth.ResourceEventPayment, appauth.ActionApprove), c.Event.ApprovePayment)
		events.POST("/:id/payments/:paymentId/reject", can(appauth.ResourceEventPayment, appauth.ActionReject), c.Event.RejectPayment)
	}

	users := authenticated.Group("/users")
	{
		users.GET("", can(appauth.ResourceUser, appauth.ActionList), c.User.ListUsers)
		users.POST("/:id/verify", can(appauth.ResourceUser, appauth.ActionVerify), c.User.VerifyUser)
		users.POST("/:id/reject", can(appauth.ResourceUser, appauth.ActionReject), c.User.RejectUser)
	}

	notifications := authenticated.Group("/notifications")
	{
		notifications.GET("", can(appauth.ResourceNotification, appauth.ActionList), c.Notification.List)
		notifications.POST("", can(appauth.ResourceNotification, appauth.ActionCreate), c.Notification.Create)
		notifications.POST("/:id/read", can(appauth.ResourceNotification, appauth.ActionMarkRead), c.Notification.MarkRead)
		notifications.GET("/ws", can(appauth.ResourceNotification, appauth.ActionSubscribe), c.WebSocket.HandleConnection)
	}

	gallery := authenticated.Group("/gallery")
	{
		gallery.POST("", can(appauth.ResourceGallery, appauth.ActionCreate), c.Gallery.CreateItem)
		gallery.PATCH("/:id", can(appauth.ResourceGallery, appauth.ActionUpdate), c.Gallery.UpdateItem)
		gallery.DELETE("/:id", can(appauth.ResourceGallery, appauth.ActionDelete), c.Gallery.DeleteItem)
	}

	albums := authenticated.Group("/albums")
	{
		albums.POST("", can(appauth.ResourceAlbum, appauth.ActionCreate), c.Gallery.CreateAlbum)
		albums.PATCH("/:albumId", can(appauth.ResourceAlbum, appauth.ActionUpdate), c.Gallery.UpdateAlbum)
		albums.DELETE("/:albumId", can(appauth.ResourceAlbum, appauth.ActionDelete), c.Gallery.DeleteAlbum)
	}

	authenticated.POST("/upload", can(appauth.ResourceUpload, appauth.ActionCreate), c.Upload.Upload)
	authenticated.GET("/payment-info", can(appauth.ResourcePaymentInfo, appauth.ActionRead), c.Site.GetPaymentInfo)
	authenticated.GET("/alumni", can(appauth.ResourceAlumni, appauth.ActionList), authMiddleware.RequireVerified(), c.User.ListAlumni)

	// --- Back-office ---
	admin := authenticated.Group("/admin")
	{
		admin.GET("/users/:id", can(appauth.ResourceUser, appauth.ActionList), c.User.GetUser)
		admin.PATCH("/users/:id", can(appauth.ResourceUser, appauth.ActionUpdateMembership), c.User.UpdateMembership)
		admin.DELETE("/users/:id", can(appauth.ResourceUser, appauth.ActionDelete), c.User.DeleteUser)

		admin.POST("/committee", can(appauth.ResourceCommittee, appauth.ActionCreate), c.Site.CreateCommitteeMember)
		admin.PATCH("/committee/:memberId", can(appauth.ResourceCommittee, appauth.ActionUpdate), c.Site.UpdateCommitteeMember)
		admin.DELETE("/committee/:memberId", can(appauth.ResourceCommittee, appauth.ActionDelete), c.Site.DeleteCommitteeMember)

		admin.POST("/payment-info", can(appauth.ResourcePaymentInfo, appauth.ActionUpdate), c.Site.SavePaymentInfo)
	}
}
