package http

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/dkorolev/huddle/internal/adapters/signal"
	"github.com/dkorolev/huddle/internal/config"
)

func genClientToken() string {
	return uuid.NewString()
}

// ClientTokenMiddleware issues a stable per-browser token. The token keys
// join rate limiting; it is not a connection id and never reaches a room.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, signalCtl *signal.Controller, meetingCtl *MeetingController) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("HuddleSessions", store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	api := r.Group("/api")

	api.GET("/ws/signal", func(c *gin.Context) {
		signalCtl.HandleSignal(ctx, c)
	})

	api.GET("/webrtc/config", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"iceServers": iceServers(cfg)})
	})

	if meetingCtl != nil {
		meetings := api.Group("/meetings")
		meetings.POST("", meetingCtl.CreateMeeting)
		meetings.GET("", meetingCtl.ListMeetings)
		meetings.GET("/:meetingID", meetingCtl.GetMeeting)
		meetings.GET("/link/:link", meetingCtl.GetMeetingByLink)
		meetings.DELETE("/:meetingID", meetingCtl.DeleteMeeting)
	}

	return r
}

// iceServers is the ICE server list handed to browsers for building their
// RTCPeerConnection. The server itself moves no media.
func iceServers(cfg *config.Config) []webrtc.ICEServer {
	servers := make([]webrtc.ICEServer, 0, len(cfg.STUNServers))
	for _, url := range cfg.STUNServers {
		servers = append(servers, webrtc.ICEServer{URLs: []string{url}})
	}
	return servers
}
