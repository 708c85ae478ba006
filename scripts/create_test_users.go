package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/johnquangdev/linerunner/internal/domain/entities"
	"github.com/johnquangdev/linerunner/internal/infrastructure/database"
	"github.com/johnquangdev/linerunner/pkg/config"
	pkgjwt "github.com/johnquangdev/linerunner/pkg/jwt"
)

func main() {
	log.Println("🚀 Starting test users creation...")

	// Load configuration from .env
	cfg, err := config.LoadEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Initialize JWT manager
	jwtManager := pkgjwt.NewManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Define test users
	testUsers := []struct {
		Email string
		Name  string
		Role  entities.UserRole
	}{
		{Email: "director@test.local", Name: "Director", Role: entities.RoleAdmin},
		{Email: "alice@test.local", Name: "Alice", Role: entities.RoleActor},
		{Email: "bob@test.local", Name: "Bob", Role: entities.RoleActor},
	}

	log.Println("🗑️  Cleaning up existing test users...")
	db.Where("user_id IN (SELECT id FROM users WHERE email LIKE ?)", "%@test.local").Delete(&entities.Session{})
	db.Where("email LIKE ?", "%@test.local").Delete(&entities.User{})

	log.Println("🔑 Creating test users and tokens...")

	for i, testUser := range testUsers {
		user := entities.NewUser(testUser.Email, testUser.Name)
		user.Role = testUser.Role

		if err := db.Create(user).Error; err != nil {
			log.Printf("❌ Failed to create user %s: %v", testUser.Email, err)
			continue
		}

		accessToken, err := jwtManager.GenerateAccessToken(user.ID, user.Email, string(user.Role))
		if err != nil {
			log.Printf("❌ Failed to generate access token for %s: %v", testUser.Email, err)
			continue
		}

		refreshToken, err := jwtManager.GenerateRefreshToken(user.ID)
		if err != nil {
			log.Printf("❌ Failed to generate refresh token for %s: %v", testUser.Email, err)
			continue
		}

		hash, err := jwtManager.HashToken(refreshToken)
		if err != nil {
			log.Printf("❌ Failed to hash refresh token for %s: %v", testUser.Email, err)
			continue
		}

		session := entities.NewSession(user.ID, hash, time.Now().Add(cfg.JWT.RefreshExpiry))
		if err := db.Create(session).Error; err != nil {
			log.Printf("❌ Failed to create session for %s: %v", testUser.Email, err)
			continue
		}

		fmt.Printf("═══════════════════════════════════════════════════════════════\n")
		fmt.Printf("🟢 User %d: %s\n", i+1, testUser.Name)
		fmt.Printf("═══════════════════════════════════════════════════════════════\n")
		fmt.Printf("Email:        %s\n", user.Email)
		fmt.Printf("User ID:      %s\n", user.ID)
		fmt.Printf("Role:         %s\n", user.Role)
		fmt.Printf("\n📋 Access Token (expires in %v):\n", cfg.JWT.AccessExpiry)
		fmt.Printf("%s\n", accessToken)
		fmt.Printf("\n🔄 Refresh Token:\n")
		fmt.Printf("%s\n", refreshToken)
		fmt.Printf("───────────────────────────────────────────────────────────────\n\n")
	}

	log.Println("✅ All test users created successfully!")
	log.Println("💡 Usage: set header Authorization: Bearer <access_token>")
	log.Println("🧹 To clean up test users, run: DELETE FROM users WHERE email LIKE '%@test.local'")
}
