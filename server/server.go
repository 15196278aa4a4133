package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/housepower/cohortcmp/common"
	"github.com/housepower/cohortcmp/config"
	"github.com/housepower/cohortcmp/controller"
	_ "github.com/housepower/cohortcmp/docs"
	"github.com/housepower/cohortcmp/log"
	"github.com/housepower/cohortcmp/model"
	"github.com/housepower/cohortcmp/router"
	"github.com/housepower/cohortcmp/service/prometheus"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/gin-swagger/swaggerFiles"
)

type ApiServer struct {
	config   *config.CohortConfig
	services router.Services
	svr      *http.Server
}

func NewApiServer(config *config.CohortConfig, services router.Services) *ApiServer {
	server := &ApiServer{}
	server.config = config
	server.services = services
	return server
}

// Handler builds the gin engine with every route and middleware.
func (server *ApiServer) Handler() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	// add log middleware
	r.Use(ginLoggerToFile())

	// http://127.0.0.1:8818/swagger/index.html
	if server.config.Server.SwaggerEnable {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// http://127.0.0.1:8818/debug/pprof/
	if server.config.Server.Pprof {
		pprof.Register(r)
	}

	r.GET("/metrics", gin.WrapH(prometheus.Handler()))
	r.GET("/prometheus/sd", func(c *gin.Context) {
		c.JSON(http.StatusOK, prometheus.GetObjects(server.config.Server.Ip, server.config.Server.Port, server.config.Server.Https))
	})

	group := r.Group("/")
	if server.config.Server.Auth {
		// add authenticate middleware
		group.Use(ginJWTAuth())
	}
	router.InitRouter(group, server.services)
	return r
}

func (server *ApiServer) Start() error {
	bind := fmt.Sprintf("%s:%d", server.config.Server.Ip, server.config.Server.Port)
	server.svr = &http.Server{
		Addr:         bind,
		WriteTimeout: time.Second * 300,
		ReadTimeout:  time.Second * 300,
		IdleTimeout:  time.Second * 60,
		Handler:      server.Handler(),
	}

	if server.config.Server.Https {
		go func() {
			if err := server.svr.ListenAndServeTLS(server.config.Server.CertFile, server.config.Server.KeyFile); err != nil && err != http.ErrServerClosed {
				log.Logger.Fatalf("start https server fail: %s", err.Error())
			}
		}()
	} else {
		go func() {
			if err := server.svr.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Logger.Fatalf("start http server start fail: %s", err.Error())
			}
		}()
	}
	log.Logger.Infof("api server listening on %s", bind)
	return nil
}

func (server *ApiServer) Stop() error {
	if server.svr == nil {
		return nil
	}
	waitTimeout := time.Duration(time.Second * 10)
	ctx, cancel := context.WithTimeout(context.Background(), waitTimeout)
	defer cancel()
	return server.svr.Shutdown(ctx)
}

func ginLoggerToFile() gin.HandlerFunc {
	return func(c *gin.Context) {
		// start time
		startTime := time.Now()
		// Processing request
		c.Next()
		// execution time
		latencyTime := time.Since(startTime)
		// Request mode
		reqMethod := c.Request.Method
		// Request routing
		reqUri := c.Request.RequestURI
		// Status code
		statusCode := c.Writer.Status()
		// Request IP
		clientIP := c.ClientIP()
		// Log format
		if statusCode < http.StatusBadRequest {
			log.Logger.Infof("| %3d | %13v | %15s | %s | %s",
				statusCode,
				latencyTime,
				clientIP,
				reqMethod,
				reqUri,
			)
		} else {
			log.Logger.Errorf("| %3d | %13v | %15s | %s | %s",
				statusCode,
				latencyTime,
				clientIP,
				reqMethod,
				reqUri,
			)
		}
	}
}

// ginJWTAuth accepts a token in the token header or as a bearer token.
func ginJWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Request.Header.Get("token")
		if token == "" {
			token = strings.TrimPrefix(c.Request.Header.Get("Authorization"), "Bearer ")
		}
		if token == "" {
			router.WrapMsg(c, model.E_JWT_TOKEN_NONE, nil)
			c.Abort()
			return
		}

		j := common.NewJWT()
		claims, code := j.ParserToken(token)
		if code != model.E_SUCCESS {
			router.WrapMsg(c, code, nil)
			c.Abort()
			return
		}

		// Verify client ip
		if claims.ClientIP != "" && claims.ClientIP != c.ClientIP() {
			router.WrapMsg(c, model.E_JWT_TOKEN_INVALID, "client ip mismatch")
			c.Abort()
			return
		}

		c.Set(controller.ClaimsKey, claims)
	}
}
