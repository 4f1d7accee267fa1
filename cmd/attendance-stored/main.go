package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/hronline/attendance-store/internal/api"
	enginestore "github.com/hronline/attendance-store/internal/prefs"
	"github.com/hronline/attendance-store/internal/server"
	"github.com/hronline/attendance-store/internal/vault"
	"github.com/hronline/attendance-store/pkg/prefs"
)

func main() {
	fmt.Println("Starting Attendance Store Daemon...")

	dataDir := os.Getenv("ATTENDANCE_DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}

	port := os.Getenv("ATTENDANCE_PORT")
	if port == "" {
		port = "7101"
	}

	httpPort := os.Getenv("ATTENDANCE_HTTP_PORT")
	if httpPort == "" {
		httpPort = "7102"
	}

	useTLS := os.Getenv("ATTENDANCE_DISABLE_TLS") != "true"

	// Pick the storage engine.
	var store prefs.Store
	var flush func()

	if os.Getenv("ATTENDANCE_BACKEND") == "sqlite" {
		s, err := enginestore.NewSQLiteStore(dataDir + "/prefs.db")
		if err != nil {
			log.Fatalf("Failed to open sqlite store: %v", err)
		}
		store = s
		flush = func() { s.Close() }
		fmt.Println("Engine started (sqlite backend).")
	} else {
		persister, err := enginestore.NewPersistence(dataDir)
		if err != nil {
			log.Fatalf("Failed to initialize persistence: %v", err)
		}
		initialData, err := persister.LoadAll()
		if err != nil {
			log.Printf("Warning: could not load existing data: %v", err)
		}
		m := enginestore.NewMemStore(initialData, persister)
		store = m
		flush = m.Wait
		fmt.Printf("Engine started. Loaded %d owners.\n", len(initialData))
	}

	// TCP protocol for the SDK.
	router := server.NewRouter(store)
	if useTLS {
		fmt.Println("Generating self-signed certificate for internal TLS...")
		cert, err := vault.GenerateSelfSignedCert()
		if err != nil {
			log.Fatalf("Failed to generate TLS certificate: %v", err)
		}
		router.SetCertificate(cert)
		fmt.Println("TLS encryption enabled.")
	} else {
		fmt.Println("TLS encryption disabled (ATTENDANCE_DISABLE_TLS=true).")
	}

	// HTTP API for HR clients.
	h := api.NewHandler(store)
	r := gin.Default()

	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	h.Routes(r.Group("/api"))

	go func() {
		fmt.Printf("HTTP API listening on :%s\n", httpPort)
		if err := r.Run(":" + httpPort); err != nil {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Graceful shutdown.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutdown signal received. Finalizing disk writes...")
		router.Stop()
		flush()
		fmt.Println("Persistence complete. Exiting.")
		os.Exit(0)
	}()

	fmt.Printf("Attendance engine listening on :%s (TCP)\n", port)
	if err := router.Listen(port); err != nil {
		select {
		case <-sigChan:
		default:
			log.Fatalf("TCP server failed: %v", err)
		}
	}
}
