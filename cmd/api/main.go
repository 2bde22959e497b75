package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"realestate-lead-orchestrator/internal/api/handlers"
	"realestate-lead-orchestrator/internal/auth"
	"realestate-lead-orchestrator/internal/collaborators/cma"
	"realestate-lead-orchestrator/internal/collaborators/crm"
	"realestate-lead-orchestrator/internal/collaborators/llm"
	"realestate-lead-orchestrator/internal/compliance"
	"realestate-lead-orchestrator/internal/config"
	"realestate-lead-orchestrator/internal/events"
	"realestate-lead-orchestrator/internal/intent"
	"realestate-lead-orchestrator/internal/orchestrator"
	"realestate-lead-orchestrator/internal/session"
	"realestate-lead-orchestrator/internal/storage/postgres"
	"realestate-lead-orchestrator/internal/workflows"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("invalid configuration: %v", err)
		os.Exit(1)
	}

	dbClient, err := postgres.NewClient()
	if err != nil {
		log.Printf("failed to initialize database: %v", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	// Initialize storage layers.
	auditStorage := postgres.NewAuditStorage(dbClient)
	userStorage := postgres.NewUserStorage(dbClient)
	ruleStorage := postgres.NewRuleStorage(dbClient)
	memoryStorage := postgres.NewMemoryStorage(dbClient)
	brandToneStorage := postgres.NewBrandToneStorage(dbClient)
	escalationStorage := postgres.NewEscalationConfigStorage(dbClient)
	comparableStorage := postgres.NewComparableListingStorage(dbClient)

	if err := userStorage.InitDefaultAdmin(); err != nil {
		log.Printf("warning: failed to initialize default admin user: %v", err)
	}

	// LLM collaborator: Gemini when configured, a deterministic template
	// fallback otherwise. Either way draftResponse always produces text
	// (§4.5 soft-failure semantics).
	var llmClient llm.Client
	geminiClient, err := llm.NewGeminiClient()
	if err != nil {
		log.Printf("warning: Gemini client unavailable, falling back to templates: %v", err)
		llmClient = llm.TemplateClient{}
	} else {
		if err := geminiClient.HealthCheck(context.Background()); err != nil {
			log.Printf("warning: Gemini health check failed, falling back to templates: %v", err)
			llmClient = llm.TemplateClient{}
		} else {
			llmClient = geminiClient
		}
	}

	crmClient := crm.NewStubClient()
	cmaGenerator := &cma.LLMGenerator{Store: comparableStorage, LLM: llmClient}

	emitter := events.New(events.LogSink)
	sessions := session.New(cfg, func(leadID string) {
		log.Printf("[SESSION] evicted lead=%s", leadID)
	})
	gate := compliance.NewGate(cfg, auditStorage)

	deps := workflows.Deps{
		Config:     cfg,
		Classifier: intent.ThresholdClassifier{Thresholds: cfg.ClassificationThresholds},
		LLM:        llmClient,
		CRM:        crmClient,
		CMA:        cmaGenerator,
		Emitter:    emitter,
	}
	registry := workflows.NewRegistry()

	orch := orchestrator.New(cfg, sessions, gate, crmClient, registry, deps, emitter).
		WithMemory(memoryStorage).
		WithTone(brandToneStorage).
		WithEscalation(escalationStorage)

	sweepCtx, stopSweeps := context.WithCancel(context.Background())
	defer stopSweeps()
	go runSweeps(sweepCtx, sessions, gate, cfg)

	// Initialize handlers.
	authHandler := handlers.NewAuthHandler(userStorage)
	ruleHandler := handlers.NewRuleHandler(ruleStorage)
	inboundHandler := handlers.NewInboundHandler(orch, sessions, gate)

	router := gin.Default()
	router.Use(corsMiddleware())
	router.Use(loggingMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Lead-facing surface (§6): no authentication, leads never log in.
	router.POST("/handle-inbound", inboundHandler.HandleInbound)
	router.POST("/process-opt-out", inboundHandler.ProcessOptOut)
	router.GET("/compliance-status", inboundHandler.ComplianceStatus)
	router.GET("/session", inboundHandler.Session)

	// Operator-facing dashboard surface, JWT-gated.
	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
		}
	}

	api = router.Group("/api")
	api.Use(jwtAuthMiddleware())
	{
		rules := api.Group("/rules")
		rules.Use(adminMiddleware())
		{
			rules.GET("", ruleHandler.ListRules)
			rules.GET("/:id", ruleHandler.GetRule)
			rules.POST("", ruleHandler.CreateRule)
			rules.PUT("/:id", ruleHandler.UpdateRule)
			rules.DELETE("/:id", ruleHandler.DeleteRule)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed to start: %v", err)
		}
	}()

	fmt.Printf("server running on port %s\n", port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	fmt.Println("server exited")
}

// runSweeps drives the two background maintenance schedules named in §5:
// the Session Store's expired-session sweep on its short, frequent
// interval, and the Compliance Gate's opt-out/audit retention sweep on its
// own far longer schedule. Both run until ctx is cancelled at shutdown.
func runSweeps(ctx context.Context, sessions *session.Store, gate *compliance.Gate, cfg config.Config) {
	sessionTicker := time.NewTicker(cfg.SessionSweepInterval)
	defer sessionTicker.Stop()

	retentionTicker := time.NewTicker(24 * time.Hour)
	defer retentionTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sessionTicker.C:
			if n := sessions.Sweep(); n > 0 {
				log.Printf("[SESSION] swept %d expired session(s)", n)
			}
		case <-retentionTicker.C:
			if n := gate.Sweep(cfg.OptOutRetention); n > 0 {
				log.Printf("[COMPLIANCE] swept %d retention-expired record(s)", n)
			}
		}
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		log.Printf("%s %s %d %v", method, path, status, latency)
	}
}

func jwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		token := parts[1]

		claims, err := auth.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		if claims.TenantID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "token is missing tenant_id, please log in again",
			})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("tenant_id", claims.TenantID)
		c.Set("role", claims.Role)

		c.Next()
	}
}

func adminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role != "admin" {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
