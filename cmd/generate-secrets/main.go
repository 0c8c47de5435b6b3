package main

import (
	"fmt"
	"log"

	"github.com/parkeasy/parkeasy-backend/internal/utils"
)

func main() {
	fmt.Println("===========================================")
	fmt.Println("Secret Generator for ParkEasy")
	fmt.Println("===========================================")
	fmt.Println()

	accessSecret, refreshSecret, err := utils.GenerateJWTSecrets()
	if err != nil {
		log.Fatalf("Failed to generate secrets: %v", err)
	}
	webhookSecret, err := utils.GenerateWebhookSecret()
	if err != nil {
		log.Fatalf("Failed to generate webhook secret: %v", err)
	}

	fmt.Println("✅ Secrets generated successfully!")
	fmt.Println()
	fmt.Println("Add these to your .env file or deployment secrets:")
	fmt.Println()
	fmt.Printf("JWT_SECRET=%s\n", accessSecret)
	fmt.Printf("JWT_REFRESH_SECRET=%s\n", refreshSecret)
	fmt.Printf("CHECKOUT_WEBHOOK_SECRET=%s\n", webhookSecret)
	fmt.Println()
	fmt.Println("The webhook secret must also be configured on the payment provider's endpoint.")
	fmt.Println("⚠️  IMPORTANT: Keep these secrets safe and never commit them to version control!")
	fmt.Println("===========================================")
}
